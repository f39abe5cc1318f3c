package application

import (
	"context"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/link"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/transport"
)

// Receptor conecta el transporte con la capa de enlace y la salida al
// usuario. Todos los mensajes se interpretan con el mismo algoritmo.
type Receptor struct {
	pipeline *link.Pipeline
	app      *ApplicationLayer
	codec    string
}

func NewReceptor(p *link.Pipeline, app *ApplicationLayer, codec string) *Receptor {
	return &Receptor{pipeline: p, app: app, codec: codec}
}

func (r *Receptor) Codec() string { return r.codec }

// HandleDelivery es el transport.FrameHandler del receptor. Los fallos de
// transporte (entrada malformada, buffer excedido) se rechazan sin pasar por
// el codec.
func (r *Receptor) HandleDelivery(_ context.Context, d transport.Delivery) *link.Outcome {
	var o *link.Outcome
	if d.Err != nil {
		o = r.pipeline.Fail(r.codec, d.Bits, d.Err)
	} else {
		o = r.pipeline.Process(d.Frame, r.codec)
	}
	if r.app != nil {
		r.app.MostrarMensaje(o)
	}
	return o
}
