package security

import (
	"sync"
	"time"

	"github.com/hitoshi/foliogen/internal/model"
)

// rateWindow はAIレート制限のウィンドウ長。
const rateWindow = time.Hour

// rateLimitEntry はユーザーごとのリクエスト数とウィンドウのリセット時刻を保持する。
type rateLimitEntry struct {
	count   int
	resetAt time.Time
}

// AIRateLimiterConfig はAIレート制限の設定を保持する。
type AIRateLimiterConfig struct {
	Enabled            bool
	MaxRequestsPerHour int
	CleanupInterval    time.Duration
}

// DefaultAIRateLimiterConfig はデフォルトのAIレート制限設定を返す。
func DefaultAIRateLimiterConfig() AIRateLimiterConfig {
	return AIRateLimiterConfig{
		Enabled:            true,
		MaxRequestsPerHour: 10,
		CleanupInterval:    5 * time.Minute,
	}
}

// AIRateLimiter はユーザーごとの固定ウィンドウレート制限を管理する。
// スライディングウィンドウではなく期限切れリセット方式:
// resetAt経過後の最初のリクエストでカウントを1に戻し、ウィンドウを1時間延長する。
//
// 判定と更新は単一のロック内で行う（read-check-incrementを1つの論理ステップ
// として実行する）。複数インスタンス間の整合性は持たない（インスタンスごとの近似）。
type AIRateLimiter struct {
	config AIRateLimiterConfig

	mu      sync.Mutex
	entries map[string]*rateLimitEntry

	stopCh chan struct{}
}

// NewAIRateLimiter は新しいAIRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewAIRateLimiter(config AIRateLimiterConfig) *AIRateLimiter {
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	rl := &AIRateLimiter{
		config:  config,
		entries: make(map[string]*rateLimitEntry),
		stopCh:  make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *AIRateLimiter) Stop() {
	close(rl.stopCh)
}

// Check はユーザーのレート制限を判定し、許可ならカウントを消費する。
// 設定で無効化されている場合は常に許可する。
// 拒否の場合、ResetAtにウィンドウのリセット時刻を保持する。
func (rl *AIRateLimiter) Check(userID string) model.RateLimitDecision {
	return rl.checkAt(userID, time.Now())
}

// checkAt は指定時刻を現在時刻としてレート制限を判定する。テスト用。
func (rl *AIRateLimiter) checkAt(userID string, now time.Time) model.RateLimitDecision {
	if !rl.config.Enabled {
		return model.RateLimitDecision{Allowed: true, Remaining: rl.config.MaxRequestsPerHour}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.entries[userID]
	if !ok || !now.Before(entry.resetAt) {
		// 新規ユーザー、またはウィンドウ期限切れ: カウントを1に戻して延長する
		entry = &rateLimitEntry{count: 1, resetAt: now.Add(rateWindow)}
		rl.entries[userID] = entry
		return model.RateLimitDecision{
			Allowed:   true,
			Remaining: rl.config.MaxRequestsPerHour - 1,
			ResetAt:   entry.resetAt,
		}
	}

	if entry.count >= rl.config.MaxRequestsPerHour {
		return model.RateLimitDecision{
			Allowed: false,
			ResetAt: entry.resetAt,
		}
	}

	entry.count++
	return model.RateLimitDecision{
		Allowed:   true,
		Remaining: rl.config.MaxRequestsPerHour - entry.count,
		ResetAt:   entry.resetAt,
	}
}

// EntryCount は現在管理されているエントリ数を返す。テストおよびメトリクス用。
func (rl *AIRateLimiter) EntryCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.entries)
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (rl *AIRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup はリセット時刻を過ぎたエントリを削除する。
func (rl *AIRateLimiter) cleanup() {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for userID, entry := range rl.entries {
		if now.After(entry.resetAt) {
			delete(rl.entries, userID)
		}
	}
}
