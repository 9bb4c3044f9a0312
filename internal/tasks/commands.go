package tasks

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	addTaskMessageType    = "featuregate.tasks.add"
	toggleTaskMessageType = "featuregate.tasks.toggle"

	maxTaskTextLength = 280
)

// AddTaskCommand creates a task with the given text.
type AddTaskCommand struct {
	Text string `json:"text"`
}

func (AddTaskCommand) Type() string { return addTaskMessageType }

// Validate rejects blank or oversized text.
func (m AddTaskCommand) Validate() error {
	text := strings.TrimSpace(m.Text)
	return validation.Errors{
		"text": validation.Validate(text,
			validation.Required.ErrorObject(validation.NewError("featuregate.tasks.add.text_required", "text is required")),
			validation.RuneLength(0, maxTaskTextLength),
		),
	}.Filter()
}

// ToggleTaskCommand flips the completed flag of a task.
type ToggleTaskCommand struct {
	ID uuid.UUID `json:"id"`
}

func (ToggleTaskCommand) Type() string { return toggleTaskMessageType }

func (m ToggleTaskCommand) Validate() error {
	errs := validation.Errors{}
	if m.ID == uuid.Nil {
		errs["id"] = validation.NewError("featuregate.tasks.toggle.id_required", "id must be a valid identifier")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
