package dto

type UpdateMetadataRequest struct {
	Force       bool `json:"force"`
	Concurrency int  `json:"concurrency"`
}
