// Package assistant implements the answer-orchestration engine behind the
// conversational helper: ranking the knowledge base, selecting a generation
// transport, applying the retry policy, and falling back to ranked excerpts.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/tvhoang/august-revolution/internal/config"
	"github.com/tvhoang/august-revolution/internal/domain"
	"github.com/tvhoang/august-revolution/internal/gemini"
	"github.com/tvhoang/august-revolution/internal/rank"
	"github.com/tvhoang/august-revolution/internal/store"
)

// DefaultRetryBackoff is the fixed wait before the single rate-limit retry.
const DefaultRetryBackoff = 15 * time.Second

// Greeting is the fixed opening message of every conversation.
const Greeting = "Xin chào! Tôi là trợ lý về Cách mạng Tháng Tám 1945. " +
	"Hãy đặt câu hỏi bằng tiếng Việt (ví dụ: \"Diễn biến chính của Tổng khởi nghĩa?\")."

// DirectTransport obtains a generated answer using a caller-held credential.
type DirectTransport func(ctx context.Context, req gemini.Request, credential string) (string, error)

// ProxiedTransport obtains a generated answer through the same-origin relay.
type ProxiedTransport func(ctx context.Context, req gemini.Request) (string, error)

// Options configures an Orchestrator.
type Options struct {
	Knowledge []domain.KnowledgeEntry
	Repo      store.Repository
	Direct    DirectTransport
	Proxied   ProxiedTransport

	// Configuration cascade tiers, highest priority first; the per-session
	// stored overrides tier is inserted between Env and Metadata at query
	// time. Nil tiers are skipped.
	Env      config.Source
	Metadata config.Source
	Fallback config.Source

	// RetryBackoff overrides the fixed 429 backoff, for tests. Zero selects
	// DefaultRetryBackoff.
	RetryBackoff time.Duration
}

// Orchestrator runs one answer cycle per query. It never surfaces transport
// errors to callers: every cycle resolves to a displayable message and
// leaves the engine ready for the next query.
type Orchestrator struct {
	kb      []domain.KnowledgeEntry
	repo    store.Repository
	cache   *AnswerCache
	direct  DirectTransport
	proxied ProxiedTransport

	env      config.Source
	metadata config.Source
	fallback config.Source

	backoff time.Duration
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = DefaultRetryBackoff
	}
	return &Orchestrator{
		kb:       opts.Knowledge,
		repo:     opts.Repo,
		cache:    NewAnswerCache(),
		direct:   opts.Direct,
		proxied:  opts.Proxied,
		env:      opts.Env,
		metadata: opts.Metadata,
		fallback: opts.Fallback,
		backoff:  backoff,
	}
}

// Cache exposes the answer cache, mainly for tests and stats.
func (o *Orchestrator) Cache() *AnswerCache {
	return o.cache
}

// Ask runs a full query cycle for one visitor session and returns the agent
// message appended to the conversation.
//
// Fallback answers are cached under the same key as generated ones, so a
// repeated identical query does not re-attempt a known-failing transport
// within the session. The cache lives only as long as the process, so a
// recovered transport becomes reachable again after restart.
func (o *Orchestrator) Ask(ctx context.Context, userID, sessionID, query string) (domain.Message, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Message{}, fmt.Errorf("empty query")
	}

	if err := o.repo.AppendMessage(ctx, userID, sessionID, domain.Message{
		Role:    domain.RoleUser,
		Content: query,
	}); err != nil {
		return domain.Message{}, fmt.Errorf("append user message: %w", err)
	}

	// Rank unconditionally: the excerpts feed the proxied transport's
	// context payload and the fallback path even when the cache hits later.
	ranked := rank.ScoreDocuments(query, o.kb)
	top := topExcerpts(ranked)

	settings, err := o.repo.GetSettings(ctx, userID, sessionID)
	if err != nil {
		slog.Warn("failed to load session settings, continuing without overrides",
			"user_id", userID, "session_id", sessionID, "error", err)
		settings = nil
	}
	resolver := config.NewResolver(o.env, config.SettingsSource(settings), o.metadata, o.fallback)

	model := resolver.Model()
	apiVersion := resolver.APIVersion()
	credential := resolver.Credential()

	key := CacheKey(model, apiVersion, query)
	if cached, ok := o.cache.Get(key); ok {
		return o.reply(ctx, userID, sessionID, cached)
	}

	req := gemini.Request{
		Query:      query,
		Context:    top,
		Model:      model,
		APIVersion: apiVersion,
	}

	answer, genErr := o.attempt(ctx, req, credential)
	if genErr == nil {
		o.cache.Set(key, answer)
		o.persistWorkingConfig(ctx, userID, sessionID, settings, model, apiVersion)
		return o.reply(ctx, userID, sessionID, answer)
	}

	slog.Warn("generation failed, falling back to excerpts",
		"user_id", userID, "session_id", sessionID,
		"status", gemini.StatusOf(genErr), "error", genErr)

	answer = fallbackAnswer(top, genErr)
	o.cache.Set(key, answer)
	return o.reply(ctx, userID, sessionID, answer)
}

// attempt invokes the selected transport with the bounded retry policy:
// exactly one extra attempt, only on 429, after a fixed backoff. The two
// transport branches are independent; a direct failure never falls through
// to the proxied path.
func (o *Orchestrator) attempt(ctx context.Context, req gemini.Request, credential string) (string, error) {
	call := func(ctx context.Context) (string, error) {
		if credential != "" {
			return o.direct(ctx, req, credential)
		}
		return o.proxied(ctx, req)
	}

	var answer string
	err := retry.Do(
		func() error {
			var callErr error
			answer, callErr = call(ctx)
			return callErr
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(o.backoff),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(gemini.IsRateLimited),
		retry.OnRetry(func(n uint, err error) {
			slog.Info("rate limited, retrying after backoff", "attempt", n+1, "backoff", o.backoff)
		}),
	)
	if err != nil {
		return "", err
	}
	return answer, nil
}

// reply appends the agent message and returns it.
func (o *Orchestrator) reply(ctx context.Context, userID, sessionID, content string) (domain.Message, error) {
	msg := domain.Message{
		Role:      domain.RoleAgent,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := o.repo.AppendMessage(ctx, userID, sessionID, msg); err != nil {
		return domain.Message{}, fmt.Errorf("append agent message: %w", err)
	}
	return msg, nil
}

// persistWorkingConfig stores the model/version pair that just produced an
// answer, so the working combination sticks for the rest of the session.
func (o *Orchestrator) persistWorkingConfig(ctx context.Context, userID, sessionID string, settings *domain.Settings, model, apiVersion string) {
	updated := domain.Settings{UserID: userID, SessionID: sessionID}
	if settings != nil {
		updated = *settings
	}
	updated.Model = model
	updated.APIVersion = apiVersion

	if err := o.repo.UpsertSettings(ctx, &updated); err != nil {
		slog.Warn("failed to persist working generation config",
			"user_id", userID, "session_id", sessionID, "error", err)
	}
}

// topExcerpts keeps the best-ranked entries, bounded by the prompt context
// limit.
func topExcerpts(ranked []rank.ScoredEntry) []domain.KnowledgeEntry {
	n := len(ranked)
	if n > gemini.MaxContextExcerpts {
		n = gemini.MaxContextExcerpts
	}
	excerpts := make([]domain.KnowledgeEntry, 0, n)
	for _, s := range ranked[:n] {
		excerpts = append(excerpts, s.Entry)
	}
	return excerpts
}

// fallbackAnswer builds the deterministic retrieval-based answer shown when
// no generated answer is available.
func fallbackAnswer(excerpts []domain.KnowledgeEntry, genErr error) string {
	reason := "lỗi không xác định"
	if genErr != nil {
		reason = genErr.Error()
	}

	if len(excerpts) == 0 {
		return "Tôi chưa tìm thấy thông tin phù hợp trong dữ liệu hiện có và không thể lấy câu trả lời từ Gemini. " +
			"Bạn có thể hỏi cụ thể hơn (thời gian, địa điểm, nhân vật, sự kiện...).\n\n" +
			"(Lưu ý: " + reason + ")"
	}

	var b strings.Builder
	b.WriteString("Dựa trên dữ liệu hiện có, đây là thông tin liên quan:\n")
	for _, d := range excerpts {
		fmt.Fprintf(&b, "• %s (Nguồn: %s)\n", d.Content, d.Title)
	}
	fmt.Fprintf(&b, "\n(Lưu ý: %s)", reason)
	return b.String()
}
