// Package taxonomy holds the closed stream/subject/medium classification
// used by both the upload form and the search filters. Subjects are only
// valid within specific streams, so validation always goes through the
// (stream, subject) pair.
package taxonomy

// Streams, ordered for stable presentation.
const (
	StreamPhysicalScience   = "physical_science"
	StreamBiologicalScience = "biological_science"
	StreamCommerce          = "commerce"
	StreamArts              = "arts"
	StreamTechnology        = "technology"
)

// Mediums of instruction.
const (
	MediumSinhala = "sinhala"
	MediumTamil   = "tamil"
	MediumEnglish = "english"
)

var streamLabels = map[string]string{
	StreamPhysicalScience:   "Physical Science",
	StreamBiologicalScience: "Biological Science",
	StreamCommerce:          "Commerce",
	StreamArts:              "Arts",
	StreamTechnology:        "Technology",
}

var subjectLabels = map[string]map[string]string{
	StreamPhysicalScience: {
		"combined_mathematics": "Combined Mathematics",
		"physics":              "Physics",
		"chemistry":            "Chemistry",
	},
	StreamBiologicalScience: {
		"biology":              "Biology",
		"chemistry":            "Chemistry",
		"physics":              "Physics",
		"agricultural_science": "Agricultural Science",
	},
	StreamCommerce: {
		"business_studies": "Business Studies",
		"accounting":       "Accounting",
		"economics":        "Economics",
	},
	StreamArts: {
		"history":           "History",
		"political_science": "Political Science",
		"geography":         "Geography",
		"sinhala":           "Sinhala",
		"tamil":             "Tamil",
		"english":           "English",
		"media_studies":     "Media Studies",
	},
	StreamTechnology: {
		"engineering_tech":       "Engineering Tech (ET)",
		"bio_system_tech":        "Bio-system Tech (BST)",
		"science_for_tech":       "Science for Tech (SFT)",
		"information_technology": "Information Technology",
	},
}

var mediumLabels = map[string]string{
	MediumSinhala: "Sinhala",
	MediumTamil:   "Tamil",
	MediumEnglish: "English",
}

// Streams returns the stream keys mapped to display labels.
func Streams() map[string]string {
	out := make(map[string]string, len(streamLabels))
	for k, v := range streamLabels {
		out[k] = v
	}
	return out
}

// Mediums returns the medium keys mapped to display labels.
func Mediums() map[string]string {
	out := make(map[string]string, len(mediumLabels))
	for k, v := range mediumLabels {
		out[k] = v
	}
	return out
}

// SubjectsForStream returns the subjects valid for the given stream, keyed
// by subject id with display labels. Unknown streams return nil.
func SubjectsForStream(stream string) map[string]string {
	subjects, ok := subjectLabels[stream]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(subjects))
	for k, v := range subjects {
		out[k] = v
	}
	return out
}

// ValidStream reports whether stream is one of the five known streams.
func ValidStream(stream string) bool {
	_, ok := streamLabels[stream]
	return ok
}

// ValidMedium reports whether medium is a known medium of instruction.
func ValidMedium(medium string) bool {
	_, ok := mediumLabels[medium]
	return ok
}

// ValidPair reports whether subject belongs to the subject set of stream.
func ValidPair(stream, subject string) bool {
	subjects, ok := subjectLabels[stream]
	if !ok {
		return false
	}
	_, ok = subjects[subject]
	return ok
}
