package tools

import (
	"context"
	"errors"
	"fmt"

	"mailpilot/inbox"
)

type listLabelsTool struct {
	svc *inbox.Service
}

func (t *listLabelsTool) Name() string { return "gmail_list_labels" }

func (t *listLabelsTool) Description() string {
	return "List all Gmail labels, both system labels (INBOX, SENT, ...) and user-created labels, with their IDs."
}

func (t *listLabelsTool) Parameters() []ParameterSpec { return nil }

func (t *listLabelsTool) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	labels, err := t.svc.Labels(ctx)
	if err != nil {
		return nil, err
	}
	return successResult(FormatLabels(labels)), nil
}

type createLabelTool struct {
	svc *inbox.Service
}

func (t *createLabelTool) Name() string { return "gmail_create_label" }

func (t *createLabelTool) Description() string {
	return "Create a new Gmail label with optional custom colors. Returns the new label's ID."
}

func (t *createLabelTool) Parameters() []ParameterSpec {
	return []ParameterSpec{
		{Name: "label_name", Type: "string", Description: "Name for the new label; use forward slashes for nesting", Required: true},
		{Name: "background_color", Type: "string", Description: "Hex background color, e.g. '#16a765'"},
		{Name: "text_color", Type: "string", Description: "Hex text color, e.g. '#ffffff'"},
	}
}

func (t *createLabelTool) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	name := stringArg(args, "label_name", "")
	if name == "" {
		return errorResult("label_name is required"), nil
	}
	if existing, err := t.svc.FindLabelByName(ctx, name); err == nil {
		return errorResult("a label named %q already exists (ID: %s)", name, existing.ID), nil
	} else if !errors.Is(err, inbox.ErrNotFound) {
		return nil, err
	}
	label, err := t.svc.CreateLabel(ctx, name,
		stringArg(args, "background_color", ""),
		stringArg(args, "text_color", ""))
	if err != nil {
		return nil, err
	}
	return successResult(fmt.Sprintf("Created label %q with ID: %s", label.Name, label.ID)), nil
}

// resolveLabel looks up a label by explicit ID or by name.
func resolveLabel(ctx context.Context, svc *inbox.Service, args map[string]any) (id, display string, errRes *Result, err error) {
	id = stringArg(args, "label_id", "")
	name := stringArg(args, "label_name", "")
	if id == "" && name == "" {
		return "", "", errorResult("provide either label_id or label_name"), nil
	}
	if id != "" {
		if name != "" {
			return id, name, nil, nil
		}
		return id, id, nil, nil
	}
	label, err := svc.FindLabelByName(ctx, name)
	if err != nil {
		if errors.Is(err, inbox.ErrNotFound) {
			return "", "", errorResult("label not found: %s", name), nil
		}
		return "", "", nil, err
	}
	return label.ID, label.Name, nil, nil
}

type deleteLabelTool struct {
	svc *inbox.Service
}

func (t *deleteLabelTool) Name() string { return "gmail_delete_label" }

func (t *deleteLabelTool) Description() string {
	return "Delete a Gmail label by name or ID. Cannot delete system labels. Requires confirmation."
}

func (t *deleteLabelTool) Parameters() []ParameterSpec {
	return []ParameterSpec{
		{Name: "label_name", Type: "string", Description: "Name of the label to delete"},
		{Name: "label_id", Type: "string", Description: "ID of the label to delete"},
		{Name: "confirm", Type: "boolean", Description: "Must be true to actually delete; false previews", Required: true},
	}
}

func (t *deleteLabelTool) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	id, display, errRes, err := resolveLabel(ctx, t.svc, args)
	if errRes != nil || err != nil {
		return errRes, err
	}
	if !boolArg(args, "confirm", false) {
		return successResult(fmt.Sprintf(
			"Preview: label %q (ID: %s) would be deleted. Set confirm=true to proceed.", display, id)), nil
	}
	if err := t.svc.DeleteLabel(ctx, id); err != nil {
		return nil, err
	}
	return successResult(fmt.Sprintf("Deleted label %q.", display)), nil
}

type renameLabelTool struct {
	svc *inbox.Service
}

func (t *renameLabelTool) Name() string { return "gmail_rename_label" }

func (t *renameLabelTool) Description() string {
	return "Rename an existing Gmail label. Cannot rename system labels."
}

func (t *renameLabelTool) Parameters() []ParameterSpec {
	return []ParameterSpec{
		{Name: "label_name", Type: "string", Description: "Current name of the label"},
		{Name: "label_id", Type: "string", Description: "ID of the label"},
		{Name: "new_name", Type: "string", Description: "New name for the label", Required: true},
	}
}

func (t *renameLabelTool) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	newName := stringArg(args, "new_name", "")
	if newName == "" {
		return errorResult("new_name is required"), nil
	}
	id, display, errRes, err := resolveLabel(ctx, t.svc, args)
	if errRes != nil || err != nil {
		return errRes, err
	}
	if _, err := t.svc.RenameLabel(ctx, id, newName); err != nil {
		return nil, err
	}
	return successResult(fmt.Sprintf("Renamed label %q to %q.", display, newName)), nil
}

// modifyLabelsTool covers both add and remove.
type modifyLabelsTool struct {
	svc *inbox.Service
	add bool
}

func (t *modifyLabelsTool) Name() string {
	if t.add {
		return "gmail_add_label_to_messages"
	}
	return "gmail_remove_label_from_messages"
}

func (t *modifyLabelsTool) Description() string {
	if t.add {
		return "Add a label to one or more messages, selected by IDs or by search query."
	}
	return "Remove a label from one or more messages, selected by IDs or by search query."
}

func (t *modifyLabelsTool) Parameters() []ParameterSpec {
	return []ParameterSpec{
		{Name: "label_name", Type: "string", Description: "Name of the label"},
		{Name: "label_id", Type: "string", Description: "ID of the label"},
		{Name: "message_ids", Type: "string", Description: "Comma-separated message IDs"},
		{Name: "query", Type: "string", Description: "Gmail search query selecting messages; alternative to message_ids"},
		{Name: "max_messages", Type: "integer", Description: "Maximum messages to modify when using query (max 500)", Default: 100},
		{Name: "confirm", Type: "boolean", Description: "Must be true to actually modify; false previews", Required: true},
	}
}

func (t *modifyLabelsTool) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	ids := csvArg(args, "message_ids")
	query := stringArg(args, "query", "")
	if len(ids) == 0 && query == "" {
		return errorResult("provide either message_ids or query"), nil
	}

	labelID, display, errRes, err := resolveLabel(ctx, t.svc, args)
	if errRes != nil || err != nil {
		return errRes, err
	}

	if len(ids) == 0 {
		maxMessages := intArg(args, "max_messages", 100)
		if maxMessages > 500 {
			maxMessages = 500
		}
		matches, err := t.svc.SearchEmails(ctx, query, maxMessages)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return successResult(fmt.Sprintf("No emails found matching query: %s", query)), nil
		}
		for _, m := range matches {
			ids = append(ids, m.ID)
		}
	}

	verb, prep := "add", "to"
	if !t.add {
		verb, prep = "remove", "from"
	}
	if !boolArg(args, "confirm", false) {
		return successResult(fmt.Sprintf(
			"Preview: would %s label %q %s %d message(s). Set confirm=true to proceed.",
			verb, display, prep, len(ids))), nil
	}

	var result *inbox.ModifyResult
	if t.add {
		result = t.svc.ModifyLabels(ctx, ids, []string{labelID}, nil)
	} else {
		result = t.svc.ModifyLabels(ctx, ids, nil, []string{labelID})
	}
	if result.Succeeded == 0 {
		return errorResult("failed to modify labels: %v", result.Errors), nil
	}
	text := fmt.Sprintf("Modified label %q on %d message(s).", display, result.Succeeded)
	if len(result.Errors) > 0 {
		text += fmt.Sprintf(" Errors: %v", result.Errors)
	}
	return successResult(text), nil
}
