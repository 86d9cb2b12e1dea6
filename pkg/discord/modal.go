package discord

import (
	"errors"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Text input ids of the create modal.
const (
	FieldTitle    = "title"
	FieldLocation = "location"
	FieldDate     = "date"
	FieldTime     = "time"
	FieldCapacity = "capacity"
)

var ErrInvalidCapacity = errors.New("invalid capacity")

// ExtractModalData returns the text input values of a modal keyed by their
// custom id.
func ExtractModalData(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rc := range row.Components {
			if input, ok := rc.(*discordgo.TextInput); ok {
				values[input.CustomID] = strings.TrimSpace(input.Value)
			}
		}
	}
	return values
}

// ParseCapacity reads "max[,male[,female]]". Omitted quotas are unlimited
// (0) and -1 closes the activity to that gender.
func ParseCapacity(s string) (maxParticipants, maleQuota, femaleQuota int, err error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '/' || r == ' ' })
	if len(parts) == 0 || len(parts) > 3 {
		return 0, 0, 0, ErrInvalidCapacity
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, convErr := strconv.Atoi(p)
		if convErr != nil {
			return 0, 0, 0, ErrInvalidCapacity
		}
		nums[i] = n
	}
	if nums[0] < 1 {
		return 0, 0, 0, ErrInvalidCapacity
	}
	return nums[0], nums[1], nums[2], nil
}
