package tp

import "encoding/json"

// Entity is a dynamically shaped Targetprocess record. The valid set of
// entity types is instance-specific, so records are decoded into a generic
// map rather than per-type structs.
type Entity map[string]interface{}

// ID returns the numeric Id field, or 0 when absent.
func (e Entity) ID() int {
	switch v := e["Id"].(type) {
	case float64:
		return int(v)
	case json.Number:
		id, _ := v.Int64()

		return int(id)
	default:
		return 0
	}
}

// Name returns the Name field, or the empty string when absent.
func (e Entity) Name() string {
	name, _ := e["Name"].(string)

	return name
}

// EntityType returns the ResourceType field, or the empty string when absent.
func (e Entity) EntityType() string {
	resourceType, _ := e["ResourceType"].(string)

	return resourceType
}

// EntityList is the paginated search response envelope.
type EntityList struct {
	Items []Entity `json:"Items"          yaml:"items"`
	Next  string   `json:"Next,omitempty" yaml:"next,omitempty"`
}

// TypeDescriptor describes one entity type declared by the remote instance.
type TypeDescriptor struct {
	Name        string `json:"Name"                  yaml:"name"`
	Description string `json:"Description,omitempty" yaml:"description,omitempty"`
	URI         string `json:"Uri,omitempty"         yaml:"uri,omitempty"`
}

// MetadataDocument is the /Index/meta response.
type MetadataDocument struct {
	Items []TypeDescriptor `json:"Items" yaml:"items"`
}

// TypeNames returns the declared type names, skipping unnamed descriptors.
func (d *MetadataDocument) TypeNames() []string {
	names := make([]string, 0, len(d.Items))

	for _, item := range d.Items {
		if item.Name != "" {
			names = append(names, item.Name)
		}
	}

	return names
}

// CommentCreateRequest is the body for creating a comment on an entity.
type CommentCreateRequest struct {
	Description string     `json:"Description"`
	General     GeneralRef `json:"General"`
}

// GeneralRef references the entity a comment is attached to.
type GeneralRef struct {
	ID int `json:"Id"`
}
