// Package parser 將單行食材文字轉為 common.ParsedIngredient
package parser

import (
	"context"
	"time"

	"ingredient-engine/internal/core/kb"
	"ingredient-engine/internal/pkg/common"
)

// Parser 食材解析器；Parse 永遠回傳結果，不回傳錯誤
type Parser interface {
	Parse(ctx context.Context, line string) common.ParsedIngredient
	// CallDelay 連續呼叫之間需要的間隔，0 表示不限速
	CallDelay() time.Duration
}

// RuleParser 本地規則式解析器
type RuleParser struct {
	kb kb.Source
}

// NewRuleParser 創建規則式解析器
func NewRuleParser(src kb.Source) *RuleParser {
	return &RuleParser{kb: src}
}

// Parse 切分後以目前的知識庫快照解析
func (p *RuleParser) Parse(ctx context.Context, line string) common.ParsedIngredient {
	return Resolve(p.kb.Current(), Tokenize(line))
}

func (p *RuleParser) CallDelay() time.Duration { return 0 }

// Session 依解析器宣告的間隔依序呼叫
//
// 第一次呼叫不等待；之後每次呼叫前等待 CallDelay()。
type Session struct {
	parser Parser
	calls  int
	sleep  func(ctx context.Context, d time.Duration)
}

// NewSession 建立新的呼叫序列
func NewSession(p Parser) *Session {
	return &Session{parser: p, sleep: sleepContext}
}

// Parse 解析單行，必要時先等待
func (s *Session) Parse(ctx context.Context, line string) common.ParsedIngredient {
	if d := s.parser.CallDelay(); d > 0 && s.calls > 0 {
		s.sleep(ctx, d)
	}
	s.calls++
	return s.parser.Parse(ctx, line)
}

// Calls 已呼叫次數
func (s *Session) Calls() int { return s.calls }

// ParseMany 依序解析多行，保留輸入順序，各行互不影響
func ParseMany(ctx context.Context, p Parser, lines []string) []common.ParsedIngredient {
	s := NewSession(p)
	out := make([]common.ParsedIngredient, len(lines))
	for i, line := range lines {
		out[i] = s.Parse(ctx, line)
	}
	return out
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
