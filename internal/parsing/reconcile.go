package parsing

import (
	"fmt"

	"github.com/jonathan/resume-parser/internal/types"
)

// Merge reconciles per-chunk extraction results into one record.
//
// The first result anchors the contact block. Work experience entries are
// deduplicated by (role, company), education by (degree, institution), and
// certifications by name; within each key the earliest occurrence wins.
// Skill lists are unioned preserving first-seen order, and the longest
// non-empty summary is kept. A single result passes through unchanged.
func Merge(results []*types.ResumeRecord) *types.ResumeRecord {
	if len(results) == 0 {
		return nil
	}
	if len(results) == 1 {
		merged := *results[0]
		merged.Normalize()
		return &merged
	}

	merged := &types.ResumeRecord{
		ContactInformation: results[0].ContactInformation,
	}

	seenWork := make(map[string]bool)
	seenEdu := make(map[string]bool)
	seenCert := make(map[string]bool)
	seenTech := make(map[string]bool)
	seenSoft := make(map[string]bool)

	for _, r := range results {
		if r == nil {
			continue
		}

		if len(r.Summary) > len(merged.Summary) {
			merged.Summary = r.Summary
		}

		for _, w := range r.WorkExperience {
			key := fmt.Sprintf("%s-%s", w.Role, w.Company)
			if !seenWork[key] {
				seenWork[key] = true
				merged.WorkExperience = append(merged.WorkExperience, w)
			}
		}

		for _, ed := range r.Education {
			key := fmt.Sprintf("%s-%s", ed.Degree, ed.Institution)
			if !seenEdu[key] {
				seenEdu[key] = true
				merged.Education = append(merged.Education, ed)
			}
		}

		for _, c := range r.Certifications {
			if c.Name == "" || seenCert[c.Name] {
				continue
			}
			seenCert[c.Name] = true
			merged.Certifications = append(merged.Certifications, c)
		}

		for _, s := range r.Skills.TechnicalSkills {
			if s != "" && !seenTech[s] {
				seenTech[s] = true
				merged.Skills.TechnicalSkills = append(merged.Skills.TechnicalSkills, s)
			}
		}
		for _, s := range r.Skills.SoftSkills {
			if s != "" && !seenSoft[s] {
				seenSoft[s] = true
				merged.Skills.SoftSkills = append(merged.Skills.SoftSkills, s)
			}
		}
	}

	merged.Normalize()
	return merged
}
