package frame

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    BitFrame
		wantErr bool
	}{
		{name: "single bit", input: "1", want: BitFrame{1}},
		{name: "byte A", input: "01000001", want: BitFrame{0, 1, 0, 0, 0, 0, 0, 1}},
		{name: "empty", input: "", wantErr: true},
		{name: "invalid character", input: "0120", wantErr: true},
		{name: "spaces", input: "01 10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedInput) {
					t.Errorf("Parse() error = %v, se esperaba ErrMalformedInput", err)
				}
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse() = %v, want %v", got, tt.want)
			}
			if got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}
}

func TestFromBits(t *testing.T) {
	if _, err := FromBits([]byte{0, 1, 2}); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("FromBits con bit 2: error = %v, se esperaba ErrMalformedInput", err)
	}
	src := []byte{1, 0, 1}
	f, err := FromBits(src)
	if err != nil {
		t.Fatalf("FromBits() error inesperado: %v", err)
	}
	src[0] = 0
	if f[0] != 1 {
		t.Error("FromBits debe copiar el slice de entrada")
	}
}

func TestBitFrame_Flip(t *testing.T) {
	f := MustParse("0000")
	got, err := f.Flip(1)
	if err != nil {
		t.Fatalf("Flip() error inesperado: %v", err)
	}
	if got.String() != "1000" {
		t.Errorf("Flip(1) = %s, want 1000", got)
	}
	if f.String() != "0000" {
		t.Errorf("Flip no debe modificar el original, quedó %s", f)
	}
	if _, err := f.Flip(0); err == nil {
		t.Error("Flip(0) debía fallar")
	}
	if _, err := f.Flip(5); err == nil {
		t.Error("Flip(5) debía fallar")
	}
}

func TestBitFrame_PadLeftToByte(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "00000001"},
		{"01000001", "01000001"},
		{"101000001", "0000000101000001"},
	}
	for _, tt := range tests {
		if got := MustParse(tt.in).PadLeftToByte().String(); got != tt.want {
			t.Errorf("PadLeftToByte(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestBitFrame_Bytes(t *testing.T) {
	f := FromBytes([]byte("Hi"))
	if f.String() != "0100100001101001" {
		t.Errorf("FromBytes(Hi) = %s", f)
	}
	if string(f.Bytes()) != "Hi" {
		t.Errorf("Bytes() = %q, want Hi", f.Bytes())
	}
}

func TestFromUint32(t *testing.T) {
	got := FromUint32(0x80000001).String()
	want := "10000000000000000000000000000001"
	if got != want {
		t.Errorf("FromUint32 = %s, want %s", got, want)
	}
}

func TestBitFrame_Concat(t *testing.T) {
	a := MustParse("10")
	b := MustParse("01")
	c := a.Concat(b)
	c[0] = 0
	if a[0] != 1 || c.String() != "0001" {
		t.Errorf("Concat comparte memoria o es incorrecto: a=%s c=%s", a, c)
	}
}
