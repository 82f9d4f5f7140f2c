package domain

// MetaData describes a topic manager or lookup service to overlay clients
type MetaData struct {
	Name             string `json:"name"`
	ShortDescription string `json:"shortDescription"`
	IconURL          string `json:"iconURL,omitempty"`
	Version          string `json:"version,omitempty"`
	InformationURL   string `json:"informationURL,omitempty"`
}
