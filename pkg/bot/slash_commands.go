package bot

import (
	"bytes"
	"fmt"
	"log"

	"vanitybot/pkg/vanity"

	"github.com/bwmarrin/discordgo"
)

const (
	msgInvalidName  = "❌ Invalid role name. Try something simple."
	msgInvalidColor = "❌ Color must be a hex value like `#ff33cc`."
	msgGuildOnly    = "❌ Vanity roles can only be used inside a server."
	msgRemoved      = "✅ Your vanity role has been removed."
	msgUpdateFailed = "⚠️ Something went wrong updating your vanity role. Try again later?"
	msgRemoveFailed = "⚠️ Something went wrong removing your vanity role. Try again later?"
)

var dmPermission = false

// SlashCommands defines all available slash commands
var SlashCommands = []*discordgo.ApplicationCommand{
	{
		Name:         "vanity",
		Description:  "Create or edit your vanity role.",
		DMPermission: &dmPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "The custom name for your vanity role.",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "color_hex",
				Description: "Color in hex format (example: #ff66cc).",
				Required:    true,
			},
		},
	},
	{
		Name:         "vanity_remove",
		Description:  "Remove your vanity role completely.",
		DMPermission: &dmPermission,
	},
	{
		Name:         "vanity_palette",
		Description:  "Get recommended aesthetic color palettes.",
		DMPermission: &dmPermission,
	},
}

// SlashCommandHandlers maps command names to their handler functions
var SlashCommandHandlers = map[string]func(h *Handler, s Session, i *discordgo.InteractionCreate){
	"vanity":         handleVanityCommand,
	"vanity_remove":  handleVanityRemoveCommand,
	"vanity_palette": handleVanityPaletteCommand,
}

func handleVanityCommand(h *Handler, s Session, i *discordgo.InteractionCreate) {
	member, err := getMemberFromInteraction(i)
	if err != nil {
		h.reply(s, i, msgGuildOnly)
		return
	}

	name, ok := h.sanitizer.Sanitize(stringOption(i, "name"))
	if !ok {
		h.reply(s, i, msgInvalidName)
		return
	}

	colorHex := stringOption(i, "color_hex")
	color, err := vanity.ParseColor(colorHex)
	if err != nil {
		h.reply(s, i, msgInvalidColor)
		return
	}

	if !h.deferReply(s, i) {
		return
	}

	result, err := h.manager.Reconcile(member, name, color)
	if err != nil {
		log.Printf("[Vanity] Error updating vanity role for user %s: %v", member.UserID, err)
		h.editReply(s, i, msgUpdateFailed)
		return
	}

	if result.Nickname == vanity.NicknameFailed {
		log.Printf("[Vanity] Could not set nickname for user %s: %v", member.UserID, result.NicknameErr)
	}
	if result.Created {
		log.Printf("[Vanity] Created role %s for user %s", result.Role.ID, member.UserID)
	}

	h.editReply(s, i, fmt.Sprintf("✅ Vanity role updated to **%s** (%s)", name, colorHex))
}

func handleVanityRemoveCommand(h *Handler, s Session, i *discordgo.InteractionCreate) {
	member, err := getMemberFromInteraction(i)
	if err != nil {
		h.reply(s, i, msgGuildOnly)
		return
	}

	if !h.deferReply(s, i) {
		return
	}

	deleted, err := h.manager.Remove(member)
	if err != nil {
		log.Printf("[Vanity] Error removing vanity role for user %s: %v", member.UserID, err)
		h.editReply(s, i, msgRemoveFailed)
		return
	}
	if deleted {
		log.Printf("[Vanity] Removed vanity role for user %s", member.UserID)
	}

	h.editReply(s, i, msgRemoved)
}

func handleVanityPaletteCommand(h *Handler, s Session, i *discordgo.InteractionCreate) {
	content := vanity.FormatPalette(h.palette)

	var files []*discordgo.File
	if h.paletteSwatch {
		swatch, err := vanity.RenderSwatch(h.palette, vanity.SwatchTileSize)
		if err != nil {
			log.Printf("[Vanity] Error rendering palette swatch: %v", err)
		} else {
			files = append(files, &discordgo.File{
				Name:        "palette.png",
				ContentType: "image/png",
				Reader:      bytes.NewReader(swatch),
			})
		}
	}

	if err := respondEphemeral(s, i, content, files...); err != nil {
		log.Printf("Error responding to vanity_palette command: %v", err)
	}
}

func (h *Handler) reply(s Session, i *discordgo.InteractionCreate, content string) {
	if err := respondEphemeral(s, i, content); err != nil {
		log.Printf("Error responding to %s command: %v", i.ApplicationCommandData().Name, err)
	}
}

// deferReply acknowledges the interaction ahead of the role calls.
// It reports whether the ack was sent.
func (h *Handler) deferReply(s Session, i *discordgo.InteractionCreate) bool {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error deferring %s command: %v", i.ApplicationCommandData().Name, err)
		return false
	}
	return true
}

// editReply fills in a deferred response.
func (h *Handler) editReply(s Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		log.Printf("Error editing %s response: %v", i.ApplicationCommandData().Name, err)
	}
}

// InteractionCreate handles all slash command interactions
func (h *Handler) InteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.handleInteraction(&DiscordSession{Session: s}, i)
}

func (h *Handler) handleInteraction(s Session, i *discordgo.InteractionCreate) {
	// Only handle application commands (slash commands)
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	commandName := i.ApplicationCommandData().Name

	// Find and execute the appropriate handler
	if handler, ok := SlashCommandHandlers[commandName]; ok {
		handler(h, s, i)
	} else {
		log.Printf("Unknown slash command: %s", commandName)
	}
}

// CommandRegistrar is the part of discordgo.Session used to sync commands.
type CommandRegistrar interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// SyncSlashCommands replaces the registered command set with SlashCommands.
// guildID "" syncs global commands.
func SyncSlashCommands(s CommandRegistrar, appID, guildID string) ([]*discordgo.ApplicationCommand, error) {
	log.Println("[Commands] Syncing slash commands...")

	synced, err := s.ApplicationCommandBulkOverwrite(appID, guildID, SlashCommands)
	if err != nil {
		return nil, fmt.Errorf("failed to sync slash commands: %w", err)
	}

	log.Printf("[Commands] Synced %d commands.", len(synced))
	return synced, nil
}
