// Package model はドメインモデルを定義する。
package model

import "time"

// SecurePrompt は保護されたシステムプロンプトを表す。
// プロセス起動時に固定レジストリから初期化され、リクエスト時に
// 生成・変更されることはない（読み取り専用）。
type SecurePrompt struct {
	ID      string
	Name    string
	Content string
	Locked  bool
	// Hash はContentのsha256ハッシュをタグ付き形式（"sha256:<hex>"）で保持する。
	// 完全性チェック有効時、ルックアップごとに形式とロック状態が検証される。
	Hash string
}

// PromptValidation はユーザー入力プロンプトの検証結果を表す。
// 拒否時のReasonはセキュリティログ専用であり、ユーザーへは
// 汎用メッセージ（PromptRejectedエラー）のみを返す。
type PromptValidation struct {
	Valid     bool
	Sanitized string
	Reason    string
}

// RateLimitDecision はAIレート制限の判定結果を表す。
// 拒否の場合、ResetAtにウィンドウのリセット時刻を保持する。
type RateLimitDecision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// GenerationRequest はAI生成リクエストを表す。
type GenerationRequest struct {
	UserID   string
	PromptID string
	Input    string
	ModelID  string
	Context  map[string]string
}
