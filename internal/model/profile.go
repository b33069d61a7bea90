// Package model はドメインモデルを定義する。
package model

// Profile は正規化済みプロフィールを表す。
// 取り込み元の形式（構造化データ・フリーテキスト）に関わらず、
// 下流コンポーネント（検証・最適化・生成）はこの1つの形だけを扱う。
type Profile struct {
	Personal  PersonalInfo
	Contact   ContactInfo
	Work      []WorkExperience
	Education []Education
	Certifications []Certification
	Languages []Language
	Projects  []Project
	Volunteer []VolunteerExperience
	// Skills は順序を保持するスキル一覧。重複は許容する（最適化時の切り詰めで順序が意味を持つ）。
	Skills []string
}

// PersonalInfo は氏名・肩書き等の基本情報を表す。
type PersonalInfo struct {
	Name     string
	Headline string
	Location string
	Summary  string
	ImageURL string
}

// ContactInfo は連絡先情報を表す。各フィールドは未取得の場合空文字列。
type ContactInfo struct {
	Email    string
	Phone    string
	Website  string
	LinkedIn string
}

// WorkExperience は職歴1件を表す。
// IDは構築時に付与される合成ID（work_<index>）で、同一リスト内でのみ一意。
// 再取り込みをまたいで安定ではなく、永続化もされない。
type WorkExperience struct {
	ID          string
	Title       string
	Company     string
	Location    string
	StartDate   string
	EndDate     string
	Current     bool
	Description string
	Achievements []string
}

// Education は学歴1件を表す。合成IDは edu_<index>。
type Education struct {
	ID          string
	Institution string
	Degree      string
	Field       string
	StartDate   string
	EndDate     string
	Description string
}

// Certification は資格1件を表す。合成IDは cert_<index>。
type Certification struct {
	ID         string
	Name       string
	Issuer     string
	IssueDate  string
	ExpiryDate string
	Credential string
}

// Language は言語1件を表す。合成IDは lang_<index>。
type Language struct {
	ID          string
	Name        string
	Proficiency string
}

// Project はプロジェクト1件を表す。合成IDは proj_<index>。
type Project struct {
	ID          string
	Name        string
	Description string
	URL         string
	StartDate   string
	EndDate     string
}

// VolunteerExperience はボランティア経験1件を表す。合成IDは vol_<index>。
type VolunteerExperience struct {
	ID           string
	Organization string
	Role         string
	Cause        string
	StartDate    string
	EndDate      string
	Description  string
}

// ValidationReport はプロフィール検証の結果を表す。
// Errorsは違反した全ルールを保持する。呼び出し側は先頭1件だけを見てはならない。
type ValidationReport struct {
	Valid  bool
	Errors []string
}

// BlogPost はプロフィールのWebサイトから検出されたブログ記事を表す。
// ポートフォリオ生成のコンテキスト補強に使用する。
type BlogPost struct {
	Title       string
	URL         string
	PublishedAt string
	Summary     string
}
