package label

import "fmt"

//Category is one of the attack classes flows are consolidated into
type Category int

const (
	Benign Category = iota
	PortScan
	DoS
	DDoS
	WebAttack
	Infiltration
	Botnet
	BruteForce
	Other
	//Unknown is assigned to flows whose label is missing
	Unknown
)

var categoryNames = [...]string{
	Benign:       "Benign",
	PortScan:     "PortScan",
	DoS:          "DoS",
	DDoS:         "DDoS",
	WebAttack:    "WebAttack",
	Infiltration: "Infiltration",
	Botnet:       "Botnet",
	BruteForce:   "BruteForce",
	Other:        "Other",
	Unknown:      "Unknown",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

//IsAttack reports whether flows of this category are malicious.
//Unknown flows are not known to be attacks.
func (c Category) IsAttack() bool {
	return c != Benign && c != Unknown
}

//Categories lists every category in declaration order
func Categories() []Category {
	out := make([]Category, 0, len(categoryNames))
	for i := range categoryNames {
		out = append(out, Category(i))
	}
	return out
}

//ParseCategory converts a category name back into a Category
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return Unknown, fmt.Errorf("unknown category %q", name)
}
