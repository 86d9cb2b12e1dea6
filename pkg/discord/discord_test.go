package discord

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"rosterbot/internal/domain"
	"rosterbot/internal/domain/entities"
	"rosterbot/pkg/tz"
)

type echoT struct{}

func (echoT) T(locale, key string, data map[string]any) string {
	if len(data) == 0 {
		return key
	}
	return fmt.Sprintf("%s%v", key, data)
}

func TestParseActivityDateTime(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, tz.Taipei)

	got, err := ParseActivityDateTime(" 2026/04/11 ", "09:30", tz.Taipei, now)
	if err != nil {
		t.Fatalf("ParseActivityDateTime: %v", err)
	}
	want := time.Date(2026, 4, 11, 9, 30, 0, 0, tz.Taipei)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if _, err := ParseActivityDateTime("2026-04-11", "09:30", tz.Taipei, now); err != nil {
		t.Fatalf("dashed date: %v", err)
	}

	tests := []struct {
		date, clock string
		wantErr     error
	}{
		{"", "09:30", ErrInvalidDateTime},
		{"11/04/2026", "09:30", ErrInvalidDateTime},
		{"2026/04/11", "9h30", ErrInvalidDateTime},
		{"2026/04/10", "12:00", ErrDateTimeInPast},
		{"2026/04/09", "23:00", ErrDateTimeInPast},
	}
	for _, tt := range tests {
		tt := tt
		if _, err := ParseActivityDateTime(tt.date, tt.clock, tz.Taipei, now); !errors.Is(err, tt.wantErr) {
			t.Errorf("(%q, %q) err=%v, want %v", tt.date, tt.clock, err, tt.wantErr)
		}
	}
}

func TestParseCapacity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in                string
		max, male, female int
		wantErr           bool
	}{
		{in: "6", max: 6},
		{in: "6,3,3", max: 6, male: 3, female: 3},
		{in: "8 / -1 / 0", max: 8, male: -1},
		{in: "0", wantErr: true},
		{in: "", wantErr: true},
		{in: "six", wantErr: true},
		{in: "6,3,3,1", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		maxP, male, female, err := ParseCapacity(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidCapacity) {
				t.Errorf("ParseCapacity(%q) err=%v, want ErrInvalidCapacity", tt.in, err)
			}
			continue
		}
		if err != nil || maxP != tt.max || male != tt.male || female != tt.female {
			t.Errorf("ParseCapacity(%q)=%d,%d,%d,%v", tt.in, maxP, male, female, err)
		}
	}
}

func TestExtractModalData(t *testing.T) {
	t.Parallel()
	data := discordgo.ModalSubmitInteractionData{
		CustomID: "create_activity_modal",
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: FieldTitle, Value: "  Beach volley "},
			}},
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: FieldCapacity, Value: "12,6,6"},
			}},
		},
	}
	got := ExtractModalData(data)
	if got[FieldTitle] != "Beach volley" || got[FieldCapacity] != "12,6,6" || got[FieldDate] != "" {
		t.Fatalf("ExtractModalData=%v", got)
	}
}

func TestErrorKey(t *testing.T) {
	t.Parallel()

	key, data := ErrorKey(fmt.Errorf("join: %w", domain.CooldownActive(7)))
	if key != "errors.COOLDOWN_ACTIVE" || data["Minutes"] != 7 {
		t.Fatalf("cooldown key=%q data=%v", key, data)
	}
	if key, _ := ErrorKey(&domain.InfraError{Op: "join", Err: errors.New("boom")}); key != "errors.retry" {
		t.Fatalf("infra key=%q, want errors.retry", key)
	}
	if key, _ := ErrorKey(ErrDateTimeInPast); key != "errors.datetime_in_past" {
		t.Fatalf("past key=%q", key)
	}
	if key, _ := ErrorKey(errors.New("???")); key != "errors.generic" {
		t.Fatalf("unknown key=%q", key)
	}

	msg := ErrorMessage(echoT{}, "en", domain.GenderFull(domain.Male))
	if !strings.Contains(msg, "errors.GENDER_FULL") || !strings.Contains(msg, "Gender:gender.MALE") {
		t.Fatalf("ErrorMessage=%q", msg)
	}
}

func TestButtonIDs(t *testing.T) {
	t.Parallel()
	rows := ActivityComponents(echoT{}, "en", 42)
	row := rows[0].(discordgo.ActionsRow)
	join := row.Components[0].(discordgo.Button)
	if id, ok := ParseButtonID(join.CustomID, ButtonJoinPrefix); !ok || id != 42 {
		t.Fatalf("ParseButtonID(%q)=%d,%v", join.CustomID, id, ok)
	}
	if _, ok := ParseButtonID("btn_join_x", ButtonJoinPrefix); ok {
		t.Fatalf("non-numeric id accepted")
	}
	if _, ok := ParseButtonID("btn_leave_4", ButtonJoinPrefix); ok {
		t.Fatalf("wrong prefix accepted")
	}
}

func TestFormatRosterAndEmbed(t *testing.T) {
	t.Parallel()
	a := &entities.Activity{ID: 3, Title: "Volley", MaxParticipants: 2, CurrentParticipants: 3, MaleQuota: -1, CreatedBy: "u1",
		StartsAt: time.Date(2026, 4, 11, 1, 30, 0, 0, time.UTC)}
	roster := FormatRoster(echoT{}, "en", a, []entities.Participant{
		{UserID: "u1", IsCaptain: true},
		{UserID: "u2"},
		{UserID: "u3", IsWaiting: true},
	})
	lines := strings.Split(roster, "\n")
	if len(lines) != 4 {
		t.Fatalf("roster=%q", roster)
	}
	if lines[1] != "1. <@u1> · reply.roster.captain" || lines[3] != "3. <@u3> · reply.roster.waiting" {
		t.Fatalf("roster lines=%q", lines)
	}

	embed := BuildActivityEmbed(echoT{}, "en", a, tz.Taipei)
	if embed.Fields[0].Value != "2026/04/11 09:30" {
		t.Fatalf("When=%q", embed.Fields[0].Value)
	}
	if embed.Fields[2].Value != "2/2 (+1)" {
		t.Fatalf("Places=%q", embed.Fields[2].Value)
	}
	if embed.Fields[3].Value != "embed.banned / embed.unlimited" {
		t.Fatalf("Quota=%q", embed.Fields[3].Value)
	}
}
