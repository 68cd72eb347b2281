package domain

// OptionGroup is an optional extra a menu item offers (e.g. a topping),
// possibly at an extra price.
type OptionGroup struct {
	Label      string  `json:"label" yaml:"label"`
	ExtraPrice float64 `json:"preco" yaml:"preco"`
}

// Item is one entry of the menu.
type Item struct {
	ID        int           `json:"id" yaml:"id"`
	Name      string        `json:"nome" yaml:"nome"`
	UnitPrice float64       `json:"preco" yaml:"preco"`
	Groups    []OptionGroup `json:"opcoes,omitempty" yaml:"opcoes"`
}

// Catalog is an immutable snapshot of the menu. Providers swap whole
// snapshots; the engine never mutates one.
type Catalog struct {
	Category string `json:"categoria" yaml:"categoria"`
	Items    []Item `json:"itens" yaml:"itens"`
}

// ItemByID returns the item with the given id, or nil.
func (c *Catalog) ItemByID(id int) *Item {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i]
		}
	}
	return nil
}

// Zone is a delivery zone with its fee.
type Zone struct {
	Name string  `json:"nome" yaml:"nome"`
	Fee  float64 `json:"taxa" yaml:"taxa"`
}
