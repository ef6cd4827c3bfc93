package handler

import (
	"net/http"

	"github.com/alnotes/alnotes/internal/taxonomy"
)

type TaxonomyHandler struct{}

func NewTaxonomyHandler() *TaxonomyHandler {
	return &TaxonomyHandler{}
}

// Show serves the stream/subject/medium taxonomy. The upload form and the
// search filters both read from here, so an invalid (stream, subject)
// combination can never be offered to either.
func (h *TaxonomyHandler) Show(w http.ResponseWriter, r *http.Request) {
	subjects := map[string]map[string]string{}
	for stream := range taxonomy.Streams() {
		subjects[stream] = taxonomy.SubjectsForStream(stream)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"streams":  taxonomy.Streams(),
		"subjects": subjects,
		"mediums":  taxonomy.Mediums(),
	})
}
