package types

import "encoding/json"

// GatewayRequest is the body sent on every dispatch cycle.
type GatewayRequest struct {
	Utterance    string `json:"utterance"`
	TipoBusqueda string `json:"tipo_busqueda"`
}

// GatewayResponse is the payload returned by the gateway. Every field is
// optional; the dispatcher classifies on field presence, not on the
// utterance that produced the response.
type GatewayResponse struct {
	Mensaje  string         `json:"mensaje,omitempty"`
	Detalles []Detalle      `json:"detalles,omitempty"`
	Detalle  *PendingDetail `json:"detalle,omitempty"`
}

// Detalle is one recommendation row.
type Detalle struct {
	Pelicula           *Pelicula `json:"pelicula"`
	RazonRecomendacion string    `json:"razon_recomendacion,omitempty"`
	Evaluacion         Rating    `json:"evaluacion"`
}

// PendingDetail identifies one recommendation awaiting a user rating.
type PendingDetail struct {
	ObjectID           string    `json:"objectId"`
	Pelicula           *Pelicula `json:"pelicula"`
	RazonRecomendacion string    `json:"razon_recomendacion,omitempty"`
}

type Pelicula struct {
	ObjectID     string `json:"objectId,omitempty"`
	Titulo       string `json:"titulo"`
	Sinopsis     string `json:"sinopsis,omitempty"`
	MDBID        string `json:"mdb_id,omitempty"`
	FechaEstreno string `json:"fecha_estreno,omitempty"`
}

// Rating holds a 0-5 star score. Anything else on the wire (absent, null,
// fractional, out of range, non-numeric) leaves it invalid instead of
// failing the decode of the whole payload.
type Rating struct {
	Stars int
	Valid bool
}

func (r *Rating) UnmarshalJSON(b []byte) error {
	r.Stars, r.Valid = 0, false
	if string(b) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return nil
	}
	n := int(f)
	if float64(n) != f || n < 0 || n > 5 {
		return nil
	}
	r.Stars, r.Valid = n, true
	return nil
}

func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Stars)
}
