package parser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"ingredient-engine/internal/core/kb"
	"ingredient-engine/internal/pkg/common"
)

// Completer 聊天補全服務
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Cache 解析結果快取
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// remoteResult 遠端服務回傳的 JSON 結構
type remoteResult struct {
	Quantity  common.Quantity `json:"quantity"`
	Unit      string          `json:"unit"`
	Name      string          `json:"name"`
	Note      string          `json:"note"`
	Modifiers []string        `json:"modifiers"`
}

const remotePrompt = `You split one recipe ingredient line into parts.
Return only a JSON object with these keys:
"quantity": number, or a string for ranges such as "3-4", or null;
"unit": the unit word as written, or "";
"name": the ingredient name without quantity, unit or preparation words;
"note": parenthetical or trailing free text, or "";
"modifiers": preparation or state words such as "diced" or "fresh", in order.
Line: %s`

// RemoteParser 透過遠端補全服務切分，再以知識庫解析
//
// 遠端任何錯誤都會改用 Tokenize，因此不會失敗。
type RemoteParser struct {
	kb     kb.Source
	client Completer
	cache  Cache
	delay  time.Duration
}

// NewRemoteParser 創建遠端解析器；cache 可為 nil
func NewRemoteParser(src kb.Source, client Completer, cache Cache, delay time.Duration) *RemoteParser {
	return &RemoteParser{kb: src, client: client, cache: cache, delay: delay}
}

func (p *RemoteParser) CallDelay() time.Duration { return p.delay }

// Parse 解析單行
func (p *RemoteParser) Parse(ctx context.Context, line string) common.ParsedIngredient {
	snap := p.kb.Current()
	if strings.TrimSpace(line) == "" {
		return Resolve(snap, Tokenize(line))
	}

	start := time.Now()
	tokens, err := p.remoteTokens(ctx, line)
	common.LogRemoteCall(line, time.Since(start), err)
	if err != nil {
		return Resolve(snap, Tokenize(line))
	}
	return Resolve(snap, tokens)
}

func (p *RemoteParser) remoteTokens(ctx context.Context, line string) (Tokens, error) {
	key := cacheKey(line)
	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, key); err == nil && cached != "" {
			if t, err := decodeRemote(line, cached); err == nil {
				common.LogCacheHit("parse", key)
				return t, nil
			}
		}
		common.LogCacheMiss("parse", key)
	}

	content, err := p.client.Complete(ctx, fmt.Sprintf(remotePrompt, strings.TrimSpace(line)))
	if err != nil {
		return Tokens{}, err
	}
	raw := common.ExtractJSONObject(content)
	t, err := decodeRemote(line, raw)
	if err != nil {
		return Tokens{}, err
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, raw); err != nil {
			common.LogWarn("解析結果寫入快取失敗", zap.String("key", key), zap.Error(err))
		}
	}
	return t, nil
}

func decodeRemote(line, raw string) (Tokens, error) {
	var res remoteResult
	if err := common.ParseJSON(common.QuoteJSONKeys(raw), &res); err != nil {
		return Tokens{}, fmt.Errorf("%w: %v", common.ErrRemoteParseError, err)
	}
	name := common.CollapseSpaces(res.Name)
	if name == "" {
		return Tokens{}, fmt.Errorf("%w: empty name", common.ErrRemoteParseError)
	}

	mods := make([]string, 0, len(res.Modifiers))
	for _, m := range res.Modifiers {
		if m = common.CollapseSpaces(m); m != "" {
			mods = append(mods, m)
		}
	}
	return Tokens{
		Original:  line,
		Quantity:  res.Quantity,
		UnitText:  strings.ToLower(common.CollapseSpaces(res.Unit)),
		Name:      name,
		Note:      common.CollapseSpaces(res.Note),
		Modifiers: mods,
	}, nil
}

func cacheKey(line string) string {
	return "parse:" + kb.Key(line)
}
