// Package types provides type definitions for structured data used throughout the resume-parser system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ContactInformation holds the candidate's contact block.
// Name and Email are always serialized, even when the model could not
// find them; downstream consumers rely on the fields being present.
type ContactInformation struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// WorkExperience represents a single employment entry
type WorkExperience struct {
	Role             string `json:"role"`
	Company          string `json:"company"`
	Duration         string `json:"duration,omitempty"`
	Responsibilities string `json:"responsibilities,omitempty"`
}

// Education represents a single educational qualification
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year,omitempty"`
	GPA         string `json:"gpa,omitempty"`
}

// Skills categorizes extracted skills into technical and soft skills
type Skills struct {
	TechnicalSkills []string `json:"technical_skills"`
	SoftSkills      []string `json:"soft_skills"`
}

// Certification represents a professional certification or license
type Certification struct {
	Name                string `json:"name"`
	IssuingOrganization string `json:"issuing_organization,omitempty"`
	Year                string `json:"year,omitempty"`
}

// ResumeRecord is the canonical structured output of the extraction pipeline
type ResumeRecord struct {
	ContactInformation ContactInformation `json:"contact_information"`
	Summary            string             `json:"summary,omitempty"`
	WorkExperience     []WorkExperience   `json:"work_experience"`
	Education          []Education        `json:"education"`
	Skills             Skills             `json:"skills"`
	Certifications     []Certification    `json:"certifications"`
}

// Normalize ensures all list fields are non-nil so that serialized records
// always carry empty arrays rather than null for missing data.
func (r *ResumeRecord) Normalize() {
	if r.WorkExperience == nil {
		r.WorkExperience = []WorkExperience{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Skills.TechnicalSkills == nil {
		r.Skills.TechnicalSkills = []string{}
	}
	if r.Skills.SoftSkills == nil {
		r.Skills.SoftSkills = []string{}
	}
	if r.Certifications == nil {
		r.Certifications = []Certification{}
	}
}

// IsEmpty reports whether the record carries no extracted content at all
func (r *ResumeRecord) IsEmpty() bool {
	return r.ContactInformation.Name == "" &&
		r.ContactInformation.Email == "" &&
		r.Summary == "" &&
		len(r.WorkExperience) == 0 &&
		len(r.Education) == 0 &&
		len(r.Skills.TechnicalSkills) == 0 &&
		len(r.Skills.SoftSkills) == 0 &&
		len(r.Certifications) == 0
}
