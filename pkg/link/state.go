package link

// State es la etapa del mensaje dentro de la capa de enlace.
type State int

const (
	Receiving State = iota
	Verifying
	Correcting
	Decoding
	Delivered
	Rejected
)

func (s State) String() string {
	switch s {
	case Receiving:
		return "receiving"
	case Verifying:
		return "verifying"
	case Correcting:
		return "correcting"
	case Decoding:
		return "decoding"
	case Delivered:
		return "delivered"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Terminal indica si no hay transición posible desde s.
func (s State) Terminal() bool {
	return s == Delivered || s == Rejected
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// allowed codifica la regla de transición:
// Receiving → Verifying → {Correcting | Decoding}; Correcting → {Decoding | Rejected};
// Decoding → Delivered. Verifying puede rechazar por configuración.
var allowed = map[State][]State{
	Receiving:  {Verifying, Rejected},
	Verifying:  {Correcting, Decoding, Rejected},
	Correcting: {Decoding, Rejected},
	Decoding:   {Delivered},
}

func canTransition(from, to State) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}
