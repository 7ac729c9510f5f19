package entity

// ImageAnalysis is what an image labelling service returned for one picture.
type ImageAnalysis struct {
	Labels []string `json:"labels"`
	// Colors are dominant colours as #RRGGBB, most prominent first.
	Colors []string `json:"colors"`
}
