package dto

type SuggestNamesRequest struct {
	Text string `json:"text"`
}

type RewriteNotesRequest struct {
	Text string `json:"text"`
	Tone string `json:"tone"`
}

type QueryProductsRequest struct {
	Query string `json:"query"`
}
