package types

type SetupDetails struct {
	BaseURL        string `yaml:"base_url" json:"baseUrl"`
	APIPath        string `yaml:"api_path" json:"apiPath"`
	AuthConfigured bool   `yaml:"auth_configured" json:"authConfigured"`
	ConnectionOK   bool   `yaml:"connection_ok" json:"connectionOk"`
	RoomDoctype    string `yaml:"room_doctype,omitempty" json:"roomDoctype,omitempty"`
	BookingDoctype string `yaml:"booking_doctype,omitempty" json:"bookingDoctype,omitempty"`
}

// SetupReport is the read-only backend health summary. Issues block normal
// operation; warnings do not.
type SetupReport struct {
	OK       bool         `yaml:"ok" json:"ok"`
	Issues   []string     `yaml:"issues" json:"issues"`
	Warnings []string     `yaml:"warnings" json:"warnings"`
	Details  SetupDetails `yaml:"details" json:"details"`
}

// ResolvedNames maps entity names to the doctype each one resolved to.
func (r SetupReport) ResolvedNames() map[string]string {
	names := map[string]string{}
	if r.Details.RoomDoctype != "" {
		names["room"] = r.Details.RoomDoctype
	}
	if r.Details.BookingDoctype != "" {
		names["booking"] = r.Details.BookingDoctype
	}
	return names
}
