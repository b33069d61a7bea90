package handler

import "github.com/hitoshi/foliogen/internal/model"

// profilePayload は正規化済みプロフィールのAPI表現。
// リクエスト（生成時のプロフィール受け渡し）とレスポンス（取り込み結果）の両方で使用する。
type profilePayload struct {
	Personal       personalPayload        `json:"personal"`
	Contact        contactPayload         `json:"contact"`
	Work           []workPayload          `json:"work"`
	Education      []educationPayload     `json:"education"`
	Certifications []certificationPayload `json:"certifications"`
	Languages      []languagePayload      `json:"languages"`
	Projects       []projectPayload       `json:"projects"`
	Volunteer      []volunteerPayload     `json:"volunteer"`
	Skills         []string               `json:"skills"`
}

type personalPayload struct {
	Name     string `json:"name"`
	Headline string `json:"headline"`
	Location string `json:"location"`
	Summary  string `json:"summary"`
	ImageURL string `json:"image_url"`
}

type contactPayload struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Website  string `json:"website"`
	LinkedIn string `json:"linkedin"`
}

type workPayload struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Current      bool     `json:"current"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

type educationPayload struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type certificationPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Issuer     string `json:"issuer"`
	IssueDate  string `json:"issue_date"`
	ExpiryDate string `json:"expiry_date"`
	Credential string `json:"credential"`
}

type languagePayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

type projectPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type volunteerPayload struct {
	ID           string `json:"id"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
	Cause        string `json:"cause"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Description  string `json:"description"`
}

// toProfilePayload はmodel.ProfileからAPI表現に変換する。
func toProfilePayload(p *model.Profile) profilePayload {
	payload := profilePayload{
		Personal: personalPayload{
			Name:     p.Personal.Name,
			Headline: p.Personal.Headline,
			Location: p.Personal.Location,
			Summary:  p.Personal.Summary,
			ImageURL: p.Personal.ImageURL,
		},
		Contact: contactPayload{
			Email:    p.Contact.Email,
			Phone:    p.Contact.Phone,
			Website:  p.Contact.Website,
			LinkedIn: p.Contact.LinkedIn,
		},
		Work:           []workPayload{},
		Education:      []educationPayload{},
		Certifications: []certificationPayload{},
		Languages:      []languagePayload{},
		Projects:       []projectPayload{},
		Volunteer:      []volunteerPayload{},
		Skills:         []string{},
	}

	for _, w := range p.Work {
		payload.Work = append(payload.Work, workPayload{
			ID:           w.ID,
			Title:        w.Title,
			Company:      w.Company,
			Location:     w.Location,
			StartDate:    w.StartDate,
			EndDate:      w.EndDate,
			Current:      w.Current,
			Description:  w.Description,
			Achievements: w.Achievements,
		})
	}
	for _, e := range p.Education {
		payload.Education = append(payload.Education, educationPayload{
			ID:          e.ID,
			Institution: e.Institution,
			Degree:      e.Degree,
			Field:       e.Field,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Description: e.Description,
		})
	}
	for _, c := range p.Certifications {
		payload.Certifications = append(payload.Certifications, certificationPayload{
			ID:         c.ID,
			Name:       c.Name,
			Issuer:     c.Issuer,
			IssueDate:  c.IssueDate,
			ExpiryDate: c.ExpiryDate,
			Credential: c.Credential,
		})
	}
	for _, l := range p.Languages {
		payload.Languages = append(payload.Languages, languagePayload{
			ID:          l.ID,
			Name:        l.Name,
			Proficiency: l.Proficiency,
		})
	}
	for _, pr := range p.Projects {
		payload.Projects = append(payload.Projects, projectPayload{
			ID:          pr.ID,
			Name:        pr.Name,
			Description: pr.Description,
			URL:         pr.URL,
			StartDate:   pr.StartDate,
			EndDate:     pr.EndDate,
		})
	}
	for _, v := range p.Volunteer {
		payload.Volunteer = append(payload.Volunteer, volunteerPayload{
			ID:           v.ID,
			Organization: v.Organization,
			Role:         v.Role,
			Cause:        v.Cause,
			StartDate:    v.StartDate,
			EndDate:      v.EndDate,
			Description:  v.Description,
		})
	}
	payload.Skills = append(payload.Skills, p.Skills...)

	return payload
}

// toModelProfile はAPI表現からmodel.Profileに変換する。
func (p profilePayload) toModelProfile() model.Profile {
	profile := model.Profile{
		Personal: model.PersonalInfo{
			Name:     p.Personal.Name,
			Headline: p.Personal.Headline,
			Location: p.Personal.Location,
			Summary:  p.Personal.Summary,
			ImageURL: p.Personal.ImageURL,
		},
		Contact: model.ContactInfo{
			Email:    p.Contact.Email,
			Phone:    p.Contact.Phone,
			Website:  p.Contact.Website,
			LinkedIn: p.Contact.LinkedIn,
		},
		Skills: p.Skills,
	}

	for _, w := range p.Work {
		profile.Work = append(profile.Work, model.WorkExperience{
			ID:           w.ID,
			Title:        w.Title,
			Company:      w.Company,
			Location:     w.Location,
			StartDate:    w.StartDate,
			EndDate:      w.EndDate,
			Current:      w.Current,
			Description:  w.Description,
			Achievements: w.Achievements,
		})
	}
	for _, e := range p.Education {
		profile.Education = append(profile.Education, model.Education{
			ID:          e.ID,
			Institution: e.Institution,
			Degree:      e.Degree,
			Field:       e.Field,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Description: e.Description,
		})
	}
	for _, c := range p.Certifications {
		profile.Certifications = append(profile.Certifications, model.Certification{
			ID:         c.ID,
			Name:       c.Name,
			Issuer:     c.Issuer,
			IssueDate:  c.IssueDate,
			ExpiryDate: c.ExpiryDate,
			Credential: c.Credential,
		})
	}
	for _, l := range p.Languages {
		profile.Languages = append(profile.Languages, model.Language{
			ID:          l.ID,
			Name:        l.Name,
			Proficiency: l.Proficiency,
		})
	}
	for _, pr := range p.Projects {
		profile.Projects = append(profile.Projects, model.Project{
			ID:          pr.ID,
			Name:        pr.Name,
			Description: pr.Description,
			URL:         pr.URL,
			StartDate:   pr.StartDate,
			EndDate:     pr.EndDate,
		})
	}
	for _, v := range p.Volunteer {
		profile.Volunteer = append(profile.Volunteer, model.VolunteerExperience{
			ID:           v.ID,
			Organization: v.Organization,
			Role:         v.Role,
			Cause:        v.Cause,
			StartDate:    v.StartDate,
			EndDate:      v.EndDate,
			Description:  v.Description,
		})
	}

	return profile
}
