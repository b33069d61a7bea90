package normalizer

import (
	"encoding/json"
	"fmt"

	"github.com/hitoshi/foliogen/internal/model"
)

// structuredProfile は構造化入力の受け皿となる型付きレコード。
// 代替キーは明示的なフィールドとして列挙し、firstNonEmptyで優先順に解決する。
// リフレクションによるフィールド推測は行わない。
type structuredProfile struct {
	Name     string `json:"name"`
	FullName string `json:"fullName"`

	Headline string `json:"headline"`
	Title    string `json:"title"`

	Location string `json:"location"`

	Summary string `json:"summary"`
	About   string `json:"about"`

	Image string `json:"image"`
	Photo string `json:"photo"`

	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website"`

	LinkedIn    string `json:"linkedin"`
	LinkedInURL string `json:"linkedinUrl"`

	Experience     []structuredExperience `json:"experience"`
	WorkExperience []structuredExperience `json:"workExperience"`

	Education []structuredEducation `json:"education"`

	Certifications []structuredCertification `json:"certifications"`

	Languages []structuredLanguage `json:"languages"`

	Projects []structuredProject `json:"projects"`

	Volunteer           []structuredVolunteer `json:"volunteer"`
	VolunteerExperience []structuredVolunteer `json:"volunteerExperience"`

	Skills []string `json:"skills"`
}

type structuredExperience struct {
	Title    string `json:"title"`
	Position string `json:"position"`

	Company     string `json:"company"`
	CompanyName string `json:"companyName"`

	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type structuredEducation struct {
	Institution string `json:"institution"`
	School      string `json:"school"`

	Degree string `json:"degree"`

	Field        string `json:"field"`
	FieldOfStudy string `json:"fieldOfStudy"`

	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

type structuredCertification struct {
	Name string `json:"name"`

	Issuer       string `json:"issuer"`
	Authority    string `json:"authority"`
	Organization string `json:"organization"`

	IssueDate string `json:"issueDate"`
	Date      string `json:"date"`

	ExpiryDate string `json:"expiryDate"`

	Credential   string `json:"credential"`
	CredentialID string `json:"credentialId"`
}

type structuredLanguage struct {
	Name     string `json:"name"`
	Language string `json:"language"`

	Proficiency string `json:"proficiency"`
	Level       string `json:"level"`
}

type structuredProject struct {
	Name  string `json:"name"`
	Title string `json:"title"`

	Description string `json:"description"`

	URL  string `json:"url"`
	Link string `json:"link"`

	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type structuredVolunteer struct {
	Organization string `json:"organization"`
	Company      string `json:"company"`

	Role  string `json:"role"`
	Title string `json:"title"`

	Cause       string `json:"cause"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// parseStructured はJSON入力を正規化済みProfileへ変換する。
// 不正なJSONに対してはPARSE_FAILEDエラーを返す（この呼び出しにとって致命的）。
// 欠損フィールドは空文字列・空シーケンスとなり、nil参照エラーは発生しない。
func parseStructured(input string) (*model.Profile, error) {
	var raw structuredProfile
	if err := json.Unmarshal([]byte(input), &raw); err != nil {
		return nil, model.NewParseFailedError(err.Error())
	}

	profile := &model.Profile{
		Personal: model.PersonalInfo{
			Name:     firstNonEmpty(raw.Name, raw.FullName),
			Headline: firstNonEmpty(raw.Headline, raw.Title),
			Location: raw.Location,
			Summary:  firstNonEmpty(raw.Summary, raw.About),
			ImageURL: firstNonEmpty(raw.Image, raw.Photo),
		},
		Contact: model.ContactInfo{
			Email:    raw.Email,
			Phone:    raw.Phone,
			Website:  raw.Website,
			LinkedIn: firstNonEmpty(raw.LinkedIn, raw.LinkedInURL),
		},
		Work:           mapExperiences(firstNonEmptyExperiences(raw.Experience, raw.WorkExperience)),
		Education:      mapEducation(raw.Education),
		Certifications: mapCertifications(raw.Certifications),
		Languages:      mapLanguages(raw.Languages),
		Projects:       mapProjects(raw.Projects),
		Volunteer:      mapVolunteer(firstNonEmptyVolunteer(raw.Volunteer, raw.VolunteerExperience)),
		Skills:         mapSkills(raw.Skills),
	}

	return profile, nil
}

// firstNonEmptyExperiences は職歴リストの代替キーを優先順に解決する。
func firstNonEmptyExperiences(candidates ...[]structuredExperience) []structuredExperience {
	for _, c := range candidates {
		if len(c) > 0 {
			return c
		}
	}
	return nil
}

// firstNonEmptyVolunteer はボランティアリストの代替キーを優先順に解決する。
func firstNonEmptyVolunteer(candidates ...[]structuredVolunteer) []structuredVolunteer {
	for _, c := range candidates {
		if len(c) > 0 {
			return c
		}
	}
	return nil
}

// mapExperiences は職歴を要素ごとに正規形へ写像する。
// 合成IDは位置から生成する（work_<index>）。
// 説明文からは達成事項を抽出して付与する。
func mapExperiences(raws []structuredExperience) []model.WorkExperience {
	result := make([]model.WorkExperience, 0, len(raws))
	for i, raw := range raws {
		result = append(result, model.WorkExperience{
			ID:           fmt.Sprintf("work_%d", i),
			Title:        firstNonEmpty(raw.Title, raw.Position),
			Company:      firstNonEmpty(raw.Company, raw.CompanyName),
			Location:     raw.Location,
			StartDate:    normalizeDate(raw.StartDate),
			EndDate:      normalizeDate(raw.EndDate),
			Current:      raw.Current,
			Description:  raw.Description,
			Achievements: ExtractAchievements(raw.Description),
		})
	}
	return result
}

// mapEducation は学歴を要素ごとに正規形へ写像する。
func mapEducation(raws []structuredEducation) []model.Education {
	result := make([]model.Education, 0, len(raws))
	for i, raw := range raws {
		result = append(result, model.Education{
			ID:          fmt.Sprintf("edu_%d", i),
			Institution: firstNonEmpty(raw.Institution, raw.School),
			Degree:      raw.Degree,
			Field:       firstNonEmpty(raw.Field, raw.FieldOfStudy),
			StartDate:   normalizeDate(raw.StartDate),
			EndDate:     normalizeDate(raw.EndDate),
			Description: raw.Description,
		})
	}
	return result
}

// mapCertifications は資格を要素ごとに正規形へ写像する。
func mapCertifications(raws []structuredCertification) []model.Certification {
	result := make([]model.Certification, 0, len(raws))
	for i, raw := range raws {
		result = append(result, model.Certification{
			ID:         fmt.Sprintf("cert_%d", i),
			Name:       raw.Name,
			Issuer:     firstNonEmpty(raw.Issuer, raw.Authority, raw.Organization),
			IssueDate:  normalizeDate(firstNonEmpty(raw.IssueDate, raw.Date)),
			ExpiryDate: normalizeDate(raw.ExpiryDate),
			Credential: firstNonEmpty(raw.Credential, raw.CredentialID),
		})
	}
	return result
}

// mapLanguages は言語を要素ごとに正規形へ写像する。
func mapLanguages(raws []structuredLanguage) []model.Language {
	result := make([]model.Language, 0, len(raws))
	for i, raw := range raws {
		result = append(result, model.Language{
			ID:          fmt.Sprintf("lang_%d", i),
			Name:        firstNonEmpty(raw.Name, raw.Language),
			Proficiency: firstNonEmpty(raw.Proficiency, raw.Level),
		})
	}
	return result
}

// mapProjects はプロジェクトを要素ごとに正規形へ写像する。
func mapProjects(raws []structuredProject) []model.Project {
	result := make([]model.Project, 0, len(raws))
	for i, raw := range raws {
		result = append(result, model.Project{
			ID:          fmt.Sprintf("proj_%d", i),
			Name:        firstNonEmpty(raw.Name, raw.Title),
			Description: raw.Description,
			URL:         firstNonEmpty(raw.URL, raw.Link),
			StartDate:   normalizeDate(raw.StartDate),
			EndDate:     normalizeDate(raw.EndDate),
		})
	}
	return result
}

// mapVolunteer はボランティア経験を要素ごとに正規形へ写像する。
func mapVolunteer(raws []structuredVolunteer) []model.VolunteerExperience {
	result := make([]model.VolunteerExperience, 0, len(raws))
	for i, raw := range raws {
		result = append(result, model.VolunteerExperience{
			ID:           fmt.Sprintf("vol_%d", i),
			Organization: firstNonEmpty(raw.Organization, raw.Company),
			Role:         firstNonEmpty(raw.Role, raw.Title),
			Cause:        raw.Cause,
			StartDate:    normalizeDate(raw.StartDate),
			EndDate:      normalizeDate(raw.EndDate),
			Description:  raw.Description,
		})
	}
	return result
}

// mapSkills はスキル一覧を写像する。空要素は除外するが重複は保持する
// （順序が最適化時の切り詰めで意味を持つため、重複排除も並べ替えも行わない）。
func mapSkills(raws []string) []string {
	result := make([]string, 0, len(raws))
	for _, s := range raws {
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}
