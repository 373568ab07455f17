// Package catalog is the client for the remote plant catalog service. It
// fetches plant, image, and taxonomy records, joins images onto plants,
// flattens them into PlantView values, and filters them client-side.
package catalog

import (
	"encoding/json/v2"
	"fmt"
	"strconv"
	"strings"
)

// Fallback labels used when a plant has no taxonomy reference.
const (
	UnknownCategory        = "Desconhecida"
	UnknownClassification  = "Desconhecido"
	UnknownOrigin          = "Desconhecida"
	DescriptionUnavailable = "Descrição indisponível"
)

// Category is a taxonomic category (e.g. "Angiospermas").
type Category struct {
	ID     int    `json:"id"`
	Name   string `json:"nome"`
	Status int    `json:"status"`
}

// Classification is an angiosperm classification, shown to users as the plant "type".
type Classification struct {
	ID     int    `json:"id"`
	Name   string `json:"nome"`
	Status int    `json:"status"`
}

// Origin describes where a plant comes from (e.g. "Nativa", "Exótica").
type Origin struct {
	ID     OriginID `json:"id"`
	Kind   string   `json:"tipo"`
	Status int      `json:"status"`
}

// OriginID is the origin identifier. The service sends it as a JSON string
// in some responses and as a number in others; both decode to the same value.
type OriginID string

// UnmarshalJSON accepts a JSON string, a JSON number, or null.
func (o *OriginID) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null":
		*o = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("origin id: %w", err)
		}
		*o = OriginID(s)
	default:
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Errorf("origin id: unexpected value %s", raw)
		}
		*o = OriginID(raw)
	}
	return nil
}

// Int returns the numeric form the write endpoints expect.
func (o OriginID) Int() (int, error) {
	n, err := strconv.Atoi(string(o))
	if err != nil {
		return 0, fmt.Errorf("origin id %q is not numeric", string(o))
	}
	return n, nil
}

// PlantRecord is a plant as returned by the catalog service.
type PlantRecord struct {
	ID             int             `json:"id"`
	ScientificName string          `json:"cientifico"`
	PopularName    string          `json:"popular"`
	EdibleFlag     int             `json:"comestivel"` // 1 = edible, anything else = not
	Status         int             `json:"status"`
	Category       *Category       `json:"categoriaTaxonomica,omitempty"`
	Origin         *Origin         `json:"origem,omitempty"`
	Classification *Classification `json:"classificacaoAngiosperma,omitempty"`
}

// ImageRecord is an image attached to a plant.
type ImageRecord struct {
	ID     int          `json:"id"`
	Kind   string       `json:"tipo"`
	URL    string       `json:"url"`
	Status int          `json:"status"`
	Plant  *PlantRecord `json:"planta,omitempty"`
}

// PlantView is the flattened, read-only projection handed to callers.
// It is rebuilt on every fetch and never cached.
type PlantView struct {
	ID             int    `json:"id"`
	Name           string `json:"nome"`
	ScientificName string `json:"cientifico"`
	Description    string `json:"descricao"`
	ImageURL       string `json:"imagem"` // "" when the plant has no image
	CategoryName   string `json:"categoria"`
	TypeName       string `json:"tipo"`
	Edible         bool   `json:"comestivel"`
	OriginName     string `json:"origem"`
}

// PlantRequest is the body of the create and update endpoints.
type PlantRequest struct {
	ScientificName   string `json:"cientifico"`
	PopularName      string `json:"popular"`
	CategoryID       int    `json:"categoriaTaxonomicaId"`
	ClassificationID int    `json:"classificacaoAngiospermaId"`
	OriginID         int    `json:"origemId"`
	EdibleFlag       int    `json:"comestivel"`
	Status           int    `json:"status"`
}

// EdibleFlag converts a boolean to the service's 0/1 encoding.
func EdibleFlag(edible bool) int {
	if edible {
		return 1
	}
	return 0
}
