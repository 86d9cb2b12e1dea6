package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestCreateModalID(t *testing.T) {
	t.Parallel()
	for _, tt := range []struct{ fp, vo bool }{{false, false}, {true, false}, {false, true}, {true, true}} {
		fp, vo := parseCreateModalID(createModalID(tt.fp, tt.vo))
		if fp != tt.fp || vo != tt.vo {
			t.Fatalf("round trip (%v,%v) -> (%v,%v)", tt.fp, tt.vo, fp, vo)
		}
	}
	if fp, vo := parseCreateModalID("edit_event_modal"); fp || vo {
		t.Fatalf("foreign modal id parsed as flags")
	}
}

func TestInteractionUserAndDisplayName(t *testing.T) {
	t.Parallel()
	guildUser := &discordgo.User{ID: "1", Username: "amy_w", GlobalName: "Amy"}
	guild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Member: &discordgo.Member{User: guildUser, Nick: "Captain Amy"}}}
	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: &discordgo.User{ID: "2", Username: "bob"}}}

	if u := interactionUser(guild); u == nil || u.ID != "1" {
		t.Fatalf("guild user=%v", u)
	}
	if u := interactionUser(dm); u == nil || u.ID != "2" {
		t.Fatalf("dm user=%v", u)
	}
	if got := resolveDisplayName(guild.Member, guildUser); got != "Captain Amy" {
		t.Fatalf("nick: %q", got)
	}
	if got := resolveDisplayName(nil, guildUser); got != "Amy" {
		t.Fatalf("global name: %q", got)
	}
	if got := resolveDisplayName(nil, dm.User); got != "bob" {
		t.Fatalf("username: %q", got)
	}
}

func TestIsAdmin(t *testing.T) {
	t.Parallel()
	if isAdmin(nil) {
		t.Fatalf("nil member is not admin")
	}
	if isAdmin(&discordgo.Member{Permissions: discordgo.PermissionSendMessages}) {
		t.Fatalf("plain member reported as admin")
	}
	if !isAdmin(&discordgo.Member{Permissions: discordgo.PermissionAdministrator | discordgo.PermissionSendMessages}) {
		t.Fatalf("administrator not recognised")
	}
}

func TestCommands(t *testing.T) {
	t.Parallel()
	cmds := commands()
	if len(cmds) != 1 || cmds[0].Name != commandName {
		t.Fatalf("commands=%v", cmds)
	}
	want := map[string]bool{"create": true, "join": true, "leave": true, "roster": true, "profile": true, "verify": true, "inbox": true}
	for _, opt := range cmds[0].Options {
		if opt.Type != discordgo.ApplicationCommandOptionSubCommand {
			t.Fatalf("%s is not a subcommand", opt.Name)
		}
		delete(want, opt.Name)
	}
	if len(want) != 0 {
		t.Fatalf("missing subcommands: %v", want)
	}
}
