package engine

import (
	"context"
	"time"

	"github.com/rushteam/recsite/classify"
	"github.com/rushteam/recsite/core"
)

// 反馈动作到交互类型/分数的映射。
// dismissed 记负分 view：压低该物品后续的画像贡献。
var feedbackActions = map[string]struct {
	Type  string
	Score float64
}{
	"clicked":   {core.InteractionView, 1.0},
	"liked":     {core.InteractionLike, 2.0},
	"shared":    {core.InteractionShare, 2.5},
	"dismissed": {core.InteractionView, -0.5},
	"saved":     {core.InteractionLike, 3.0},
}

// ErrUnknownAction 表示反馈动作不在映射表内。
var ErrUnknownAction = core.NewDomainError(
	core.ModuleInteraction, core.ErrorCodeInvalidInput, "engine: unknown feedback action")

// TrackFeedback 记录用户对推荐结果的反馈。
// 这是引擎唯一的交互写入口；打分链路对交互日志只读。
func (e *Engine) TrackFeedback(ctx context.Context, userID, itemID, action string) error {
	mapping, ok := feedbackActions[action]
	if !ok {
		return ErrUnknownAction
	}

	ev := &core.InteractionEvent{
		UserID:    userID,
		ItemID:    itemID,
		Type:      mapping.Type,
		Score:     mapping.Score,
		Timestamp: time.Now(),
	}
	if err := e.interactions.RecordInteraction(ctx, ev); err != nil {
		e.log.Error().
			Err(err).
			Str("user_id", userID).
			Str("item_id", itemID).
			Str("action", action).
			Msg("record feedback failed")
		return err
	}

	e.log.Info().
		Str("user_id", userID).
		Str("item_id", itemID).
		Str("action", action).
		Msg("tracked recommendation feedback")
	return nil
}

// ClassifyContent 对内容做受众分类。纯函数，无副作用。
func (e *Engine) ClassifyContent(title, body, category string, tags []string) classify.UserType {
	return e.classifier.Classify(title, body, category, tags)
}

// ClassifyItem 对目录中的物品分类，并在目录支持时机会性回写
// user_type 标签。回写失败只记日志，不影响分类结果。
func (e *Engine) ClassifyItem(ctx context.Context, itemID string) (classify.UserType, error) {
	item, err := e.catalog.GetItem(ctx, itemID)
	if err != nil {
		return "", err
	}

	userType := e.classifier.Classify(item.Title, item.Body, item.Category, item.Tags)

	if labeler, ok := e.catalog.(core.CatalogLabeler); ok {
		if err := labeler.SetUserType(ctx, itemID, string(userType)); err != nil {
			e.log.Warn().
				Err(err).
				Str("item_id", itemID).
				Str("user_type", string(userType)).
				Msg("write back user type failed")
		}
	}
	return userType, nil
}
