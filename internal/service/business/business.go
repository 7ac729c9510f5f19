package business

import (
	"strings"
	"unicode"
)

// Template describes a placeholder product shown when no posts could be turned into products.
type Template struct {
	Name        string
	Description string
	Price       string
}

// Type is a business category detected from profile text.
type Type struct {
	Name      string
	Emoji     string
	Keywords  []string
	Templates []Template
}

// General is returned when no rule matches.
var General = Type{
	Name:  "General Business",
	Emoji: "🏪",
	Templates: []Template{
		{"Signature Product", "Our most loved item, made with care.", "499"},
		{"Bestseller", "A customer favourite. Ask us about availability.", "799"},
		{"Custom Order", "Tell us what you need and we will make it happen.", "999"},
	},
}

// rules are checked in order; the first match wins.
var rules = []Type{
	{
		Name:     "Handmade Crafts & Gifts",
		Emoji:    "🎁",
		Keywords: []string{"crochet", "handmade", "macrame", "craft", "gift", "accessor", "aesthetic"},
		Templates: []Template{
			{"Handmade Gift Box", "Curated handmade goodies, wrapped and ready to gift.", "1299"},
			{"Crochet Keychain", "Cute crochet keychain, made to order in your colours.", "249"},
			{"Macrame Wall Hanging", "Boho macrame piece to brighten any wall.", "899"},
		},
	},
	{
		Name:     "Plant Nursery",
		Emoji:    "🌿",
		Keywords: []string{"plant", "nursery", "garden", "flower", "green", "succulent"},
		Templates: []Template{
			{"Peace Lily", "Easy-care indoor plant that purifies the air.", "449"},
			{"Succulent Trio", "Three hardy succulents in ceramic pots.", "599"},
			{"Money Plant", "Lush trailing plant for shelves and desks.", "299"},
		},
	},
	{
		Name:     "Fashion & Clothing",
		Emoji:    "👗",
		Keywords: []string{"fashion", "boutique", "clothing", "style", "wear", "dress", "kurti", "saree"},
		Templates: []Template{
			{"Printed Kurti", "Breathable cotton kurti for everyday comfort.", "899"},
			{"Summer Dress", "Light and flowy dress in seasonal prints.", "1499"},
			{"Classic Tee", "Soft cotton tee, available in all sizes.", "499"},
		},
	},
	{
		Name:     "Food & Beverage",
		Emoji:    "🍰",
		Keywords: []string{"food", "cafe", "restaurant", "kitchen", "baker", "cake", "cook", "homemade"},
		Templates: []Template{
			{"Celebration Cake", "Freshly baked cake with custom designs.", "899"},
			{"Cookie Box", "A dozen handmade cookies, baked to order.", "399"},
			{"Brownie Tub", "Rich chocolate brownies, perfect for sharing.", "549"},
		},
	},
	{
		Name:     "Beauty & Cosmetics",
		Emoji:    "💄",
		Keywords: []string{"beauty", "cosmetic", "makeup", "skincare", "salon", "spa", "nail"},
		Templates: []Template{
			{"Glow Serum", "Lightweight serum for a natural glow.", "799"},
			{"Lip Tint", "Long-lasting tint in everyday shades.", "349"},
			{"Spa Kit", "Everything you need for a relaxing day in.", "1199"},
		},
	},
	{
		Name:     "Technology",
		Emoji:    "💻",
		Keywords: []string{"tech", "software", "digital", "app", "web", "code", "gadget"},
		Templates: []Template{
			{"Website Package", "A fast, mobile-friendly website for your business.", "14999"},
			{"App Consultation", "One hour session to plan your app.", "1999"},
			{"Gadget Bundle", "Handpicked accessories for your setup.", "2499"},
		},
	},
	{
		Name:     "Art & Design",
		Emoji:    "🎨",
		Keywords: []string{"art", "design", "creative", "studio", "gallery", "paint", "illustrat"},
		Templates: []Template{
			{"Custom Portrait", "Hand-drawn portrait from your photo.", "1999"},
			{"Art Print", "Museum-quality print of an original piece.", "699"},
			{"Painted Canvas", "Original acrylic on canvas.", "3499"},
		},
	},
	{
		Name:     "Jewelry",
		Emoji:    "💍",
		Keywords: []string{"jewelry", "jewellery", "ring", "necklace", "earring", "bracelet"},
		Templates: []Template{
			{"Statement Earrings", "Lightweight earrings that pair with everything.", "599"},
			{"Layered Necklace", "Delicate layered chain necklace.", "899"},
			{"Stackable Rings", "Set of three minimalist rings.", "749"},
		},
	},
	{
		Name:     "Home & Decor",
		Emoji:    "🏡",
		Keywords: []string{"home", "decor", "furniture", "interior", "candle"},
		Templates: []Template{
			{"Scented Candle", "Hand-poured soy candle with natural fragrance.", "449"},
			{"Cushion Cover Set", "Set of two woven cushion covers.", "799"},
			{"Ceramic Vase", "Minimal ceramic vase for fresh or dried flowers.", "999"},
		},
	},
}

// Types lists every category in rule order, followed by General.
func Types() []Type {
	out := make([]Type, 0, len(rules)+1)
	out = append(out, rules...)
	return append(out, General)
}

// Classify returns the first business type whose keyword starts any word of the combined text.
func Classify(texts ...string) Type {
	words := tokenize(strings.Join(texts, " "))
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			for _, w := range words {
				if strings.HasPrefix(w, kw) {
					return rule
				}
			}
		}
	}
	return General
}

// ByName finds a type by its display name; unknown names map to General.
func ByName(name string) Type {
	for _, rule := range rules {
		if rule.Name == name {
			return rule
		}
	}
	return General
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
