package bot

import (
	"fmt"

	"vanitybot/pkg/vanity"

	"github.com/bwmarrin/discordgo"
)

// getMemberFromInteraction builds the vanity.Member for a guild interaction.
// DMs carry no member and are rejected.
func getMemberFromInteraction(i *discordgo.InteractionCreate) (vanity.Member, error) {
	if i.Member == nil || i.Member.User == nil || i.GuildID == "" {
		return vanity.Member{}, fmt.Errorf("interaction was not sent from a guild")
	}

	return vanity.Member{
		GuildID: i.GuildID,
		UserID:  i.Member.User.ID,
		Tag:     i.Member.User.String(),
		Roles:   i.Member.Roles,
	}, nil
}

// stringOption returns the named string option, or "" if it was not sent.
func stringOption(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}

func respondEphemeral(s Session, i *discordgo.InteractionCreate, content string, files ...*discordgo.File) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral, // Only visible to the user who ran the command
			Files:   files,
		},
	})
}
