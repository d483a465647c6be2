package model

// ScoreNode is a single named score, as a percentage in [0,100]
type ScoreNode struct {
	Name  string  `json:"name" bson:"name"`
	Score float64 `json:"score" bson:"score"`
}

// Domain is a top-level trait with its subdomain scores
type Domain struct {
	Name       string      `json:"name" bson:"name"`
	Score      float64     `json:"score" bson:"score"`
	Subdomains []ScoreNode `json:"subdomains" bson:"subdomains"`
}

// ClassifiedProfile splits subdomain scores into strengths and development
// areas. Strengths are sorted descending by score, development areas
// ascending. Built once per profile and not mutated afterwards.
type ClassifiedProfile struct {
	Strengths        []ScoreNode `json:"strengths" bson:"strengths"`
	DevelopmentAreas []ScoreNode `json:"developmentAreas" bson:"developmentAreas"`
}
