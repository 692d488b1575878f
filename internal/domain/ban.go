package domain

// Ban mirrors one entry of the remote ban list.
type Ban struct {
	ID      int    `json:"id"`
	Nick    string `json:"nick"`
	Account string `json:"account,omitempty"`
	Handle  Handle `json:"handle"`
}
