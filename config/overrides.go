package config

// OverridesConfig locates the display-name override resources.
type OverridesConfig struct {
	// Dir holds the per-category override files (subject.json, …).
	Dir string `json:"dir"`
	// TeacherFile is the separately maintained abbreviation table.
	TeacherFile string `json:"teacher_file"`
	// RefreshMinutes is the minimum interval between reloads.
	RefreshMinutes int `json:"refresh_minutes"`
}

// SetDefaults applies sane defaults.
func (c *OverridesConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "overrides"
	}
	if c.TeacherFile == "" {
		c.TeacherFile = "overrides/teachers.json"
	}
	if c.RefreshMinutes <= 0 {
		c.RefreshMinutes = 60
	}
}
