package portfolio

// SchemaVersion tags every persisted parsedData payload so future shape
// changes can be migrated explicitly instead of assumed.
const SchemaVersion = "v1"

// Data is the canonical structured portfolio extracted from a resume.
// It is produced by the extractor, persisted verbatim as a variant payload
// and consumed by the renderer.
type Data struct {
	FullName   string       `json:"fullName"`
	JobTitle   string       `json:"jobTitle"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone,omitempty"`
	Location   string       `json:"location,omitempty"`
	LinkedIn   string       `json:"linkedin,omitempty"`
	GitHub     string       `json:"github,omitempty"`
	Summary    string       `json:"summary"`
	Skills     []SkillGroup `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Projects   []Project    `json:"projects"`
	Interests  []string     `json:"interests,omitempty"`
}

type SkillGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

type Experience struct {
	Company     string   `json:"company"`
	Role        string   `json:"role"`
	Location    string   `json:"location,omitempty"`
	Period      string   `json:"period"`
	Description []string `json:"description"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Period      string `json:"period"`
	GPA         string `json:"gpa,omitempty"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link,omitempty"`
}
