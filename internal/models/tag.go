package models

// Tag is a flat label attached to posts through the post_tags join
// table. UsageCount is maintained by the store, not the entity.
type Tag struct {
	Entity

	Name       string `json:"name"`
	Slug       string `json:"slug"`
	UsageCount int    `json:"usage_count"`
}
