package entity

type Product struct {
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description" bson:"description"`
	Price       string   `json:"price,omitempty" bson:"price,omitempty"`
	ImageURL    string   `json:"image_url" bson:"image_url"`
	PostURL     string   `json:"post_url,omitempty" bson:"post_url,omitempty"`
	OrderURL    string   `json:"order_url" bson:"order_url"`
	Labels      []string `json:"labels,omitempty" bson:"labels,omitempty"`
	Fallback    bool     `json:"fallback,omitempty" bson:"fallback,omitempty"`
}
