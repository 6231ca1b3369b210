package model

// ProviderScore is one entry of a batch scoring response. Title must echo
// the candidate's title verbatim; reconciliation is title-keyed, never
// positional.
type ProviderScore struct {
	Title       string
	Score       float64
	Explanation string
}
