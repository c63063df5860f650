package controller

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/regenrek/peakydash/internal/layout"
)

// HandleKey dispatches a key press. Editing shortcuts only run in edit mode
// with the grid focused; toggle_edit, save and quit are returned for the caller to act
// on as well. The resolved action is returned, ActionNone when ignored.
func (c *Controller) HandleKey(ctx context.Context, msg tea.KeyMsg, focus Focus) (Action, error) {
	if focus == FocusEditable {
		return ActionNone, nil
	}
	action := c.keymap.Resolve(msg)
	switch action {
	case ActionNone:
		return ActionNone, nil
	case ActionToggleEdit:
		c.SetEditMode(!c.EditMode())
		return action, nil
	case ActionQuit, ActionSave:
		return action, nil
	}
	if !c.EditMode() {
		return ActionNone, nil
	}
	var err error
	switch action {
	case ActionCopy:
		c.Copy()
	case ActionPaste:
		_, err = c.Paste(ctx)
	case ActionUndo:
		err = c.Undo(ctx)
	case ActionSelectAll:
		c.SelectAll()
	case ActionClearSelection:
		c.ClearSelection()
	case ActionDuplicate:
		_, err = c.Duplicate(ctx, "")
	case ActionRemove:
		_, err = c.Remove(ctx, "")
	case ActionGroup:
		_, err = c.Group(ctx, "", "")
		if errors.Is(err, layout.ErrGroupTooSmall) {
			c.logger.Info("controller: select at least two panels to group")
			err = nil
		}
	case ActionPrettify:
		_, err = c.Prettify(ctx)
	case ActionArrangeHeader:
		_, err = c.ArrangeSelected(ctx, layout.BulkHeader)
	case ActionArrangeGrid:
		_, err = c.ArrangeSelected(ctx, layout.BulkGrid)
	case ActionArrangeSide:
		_, err = c.ArrangeSelected(ctx, layout.BulkSide)
	}
	return action, err
}
