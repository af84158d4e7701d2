package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ingredient-engine/internal/core/kb"
	"ingredient-engine/internal/core/parser"
	"ingredient-engine/internal/core/recipe"
	"ingredient-engine/internal/pkg/common"
)

// RecipeStore 匯入所需的食譜儲存操作
type RecipeStore interface {
	FindRecipeByNameAndOwner(ctx context.Context, ownerID, name string) (common.Recipe, error)
	CreateRecipe(ctx context.Context, r common.Recipe) (common.Recipe, error)
	UpdateRecipe(ctx context.Context, r common.Recipe) (common.Recipe, error)
}

// Reconciler 依序處理一批食譜
//
// 同一批次內嚴格循序；不同批次之間沒有併發控制，後寫入者勝出。
type Reconciler struct {
	store  RecipeStore
	parser parser.Parser
	kb     kb.Source
}

// NewReconciler 創建匯入協調器
func NewReconciler(store RecipeStore, p parser.Parser, src kb.Source) *Reconciler {
	return &Reconciler{store: store, parser: p, kb: src}
}

// Reconcile 處理整批食譜；單一食譜的錯誤只會記錄在報告中
func (r *Reconciler) Reconcile(ctx context.Context, ownerID string, batch []RecipeInput) Report {
	report := newReport()
	session := parser.NewSession(r.parser)
	seen := make(map[string]struct{}, len(batch))

	for _, input := range batch {
		out := r.reconcileOne(ctx, ownerID, input, seen, session, &report)
		report.Outcomes = append(report.Outcomes, out)

		switch out.State {
		case StateCreate:
			report.Created++
		case StateUpdate:
			report.Updated++
		case StateDuplicateInBatch, StateExistsFullyParsed:
			report.Skipped = append(report.Skipped, SkippedRecipe{Name: out.Name, Reason: out.Reason})
		case StateFailed:
			report.Failed = append(report.Failed, FailedRecipe{Name: out.Name, Reason: out.Reason})
		}
	}

	common.LogInfo("食譜匯入完成",
		zap.String("owner_id", ownerID),
		zap.Int("total", len(batch)),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("failed", len(report.Failed)),
		zap.Int("parser_calls", session.Calls()),
	)
	return report
}

func (r *Reconciler) reconcileOne(ctx context.Context, ownerID string, input RecipeInput, seen map[string]struct{}, session *parser.Session, report *Report) (out Outcome) {
	name := common.CollapseSpaces(input.Name)
	out = Outcome{Name: name, State: StateNew, Path: []State{StateNew}}

	defer func() {
		if rec := recover(); rec != nil {
			common.LogError("匯入食譜時發生 panic",
				zap.String("recipe", name),
				zap.Any("panic", rec),
			)
			out.fail(fmt.Sprintf("internal error: %v", rec))
		}
	}()

	if err := ctx.Err(); err != nil {
		out.fail("import cancelled: " + err.Error())
		return out
	}
	if name == "" {
		out.fail(common.ErrEmptyRecipeName.Message)
		return out
	}

	key := strings.ToLower(name)
	if _, dup := seen[key]; dup {
		out.move(StateDuplicateInBatch)
		out.Reason = ReasonDuplicateInBatch
		return out
	}
	seen[key] = struct{}{}

	existing, err := r.store.FindRecipeByNameAndOwner(ctx, ownerID, name)
	switch {
	case errors.Is(err, common.ErrNotFound):
		out.move(StateCreate)
	case err != nil:
		out.fail(fmt.Sprintf("lookup failed: %v", err))
		return out
	case recipe.FullyParsed(existing.Ingredients):
		out.move(StateExistsFullyParsed)
		out.RecipeID = existing.ID
		out.Reason = ReasonAlreadyParsed
		return out
	default:
		out.move(StateExistsWithUnparsed)
		out.move(StateUpdate)
	}

	built := r.build(ctx, ownerID, name, input, session)

	var saved common.Recipe
	if out.State == StateUpdate {
		built.ID = existing.ID
		built.OwnerID = existing.OwnerID
		built.CreatedAt = existing.CreatedAt
		saved, err = r.store.UpdateRecipe(ctx, built)
	} else {
		saved, err = r.store.CreateRecipe(ctx, built)
	}
	if err != nil {
		out.fail(fmt.Sprintf("save failed: %v", err))
		return out
	}
	out.RecipeID = saved.ID

	if saved.HasUnparsedIngredients {
		report.RecipesWithParsingIssues = append(report.RecipesWithParsingIssues, r.issues(saved))
	}

	common.LogDebug("食譜已匯入",
		zap.String("recipe", name),
		zap.String("state", string(out.State)),
		zap.String("recipe_id", saved.ID),
	)
	return out
}

// build 篩選並解析食材，解析呼叫共用同一個 Session 以套用間隔
func (r *Reconciler) build(ctx context.Context, ownerID, name string, input RecipeInput, session *parser.Session) common.Recipe {
	snap := r.kb.Current()
	ings := make([]common.ParsedIngredient, 0, len(input.Ingredients))
	section := ""

	for _, line := range input.Ingredients {
		kind, header := Classify(snap, line.Text)
		switch kind {
		case LineHeader:
			section = header
			continue
		case LineSeparator, LineModifier, LineMeasurement:
			common.LogDebug("略過非食材行",
				zap.String("line", line.Text),
				zap.String("kind", kind.String()),
			)
			continue
		}

		ing := session.Parse(ctx, line.Text)
		ing.Section = line.Section
		if ing.Section == "" {
			ing.Section = section
		}
		ings = append(ings, ing)
	}

	instructions := make([]string, 0, len(input.Instructions))
	for _, step := range input.Instructions {
		if step = strings.TrimSpace(step); step != "" {
			instructions = append(instructions, step)
		}
	}

	rec := common.Recipe{
		OwnerID:      ownerID,
		Name:         name,
		Description:  strings.TrimSpace(input.Description),
		SourceURL:    strings.TrimSpace(input.SourceURL),
		Servings:     strings.TrimSpace(input.Servings),
		Ingredients:  ings,
		Instructions: instructions,
	}
	recipe.RecomputeFlag(&rec)
	return rec
}

func (r *Reconciler) issues(rec common.Recipe) ParsingIssues {
	snap := r.kb.Current()
	out := ParsingIssues{RecipeID: rec.ID, Name: rec.Name, Ingredients: []IngredientIssue{}}
	for _, ing := range rec.Ingredients {
		if ing.Parsed {
			continue
		}
		guess := ing.IngredientText
		if guess == "" {
			guess = ing.Name
		}
		out.Ingredients = append(out.Ingredients, IngredientIssue{
			OriginalText: ing.OriginalText,
			Ingredient:   guess,
			Quantity:     ing.Quantity.String(),
			Unit:         ing.UnitText,
			Reason:       failureReason(snap, guess),
		})
	}
	return out
}

func failureReason(snap *kb.Snapshot, guess string) string {
	if strings.TrimSpace(guess) == "" {
		return "No ingredient name found"
	}
	reason := fmt.Sprintf("No known ingredient matches %q", guess)
	if snap != nil {
		if s, _, ok := snap.Suggest(guess); ok {
			reason += fmt.Sprintf("; did you mean %q?", s.Name)
		}
	}
	return reason
}

func (o *Outcome) move(s State) {
	o.State = s
	o.Path = append(o.Path, s)
}

func (o *Outcome) fail(reason string) {
	o.move(StateFailed)
	o.Reason = reason
}
