package model

// ItemResponse is one answered questionnaire item. Item carries the full
// item text so responses never rely on positional alignment with a
// separate item list.
type ItemResponse struct {
	Item           string `json:"item" bson:"item"`
	Subdomain      string `json:"subdomain" bson:"subdomain"`
	SelectedOption string `json:"selectedOption" bson:"selectedOption"`
}

// ItemGroups maps a subdomain name to its responses, in questionnaire order
type ItemGroups map[string][]ItemResponse
