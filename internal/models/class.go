package models

// Class represents a course a teacher takes attendance for, e.g. "Physics
// 101". Static reference data.
type Class struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Sections []string `json:"sections,omitempty"`
}

// HasSection reports whether the class carries the given section label. An
// empty section always matches; a class with no sections accepts any label.
func (c Class) HasSection(section string) bool {
	if section == "" || len(c.Sections) == 0 {
		return true
	}
	for _, s := range c.Sections {
		if s == section {
			return true
		}
	}
	return false
}
