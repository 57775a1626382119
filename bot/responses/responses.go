package responses

import "github.com/bwmarrin/discordgo"

const GenericError = "An error occurred."

var GenericErrorResponse = Ephemeral(GenericError)

// Sender is what a Responder needs from the Discord session.
type Sender interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	FollowupMessageCreate(interaction *discordgo.Interaction, params *discordgo.WebhookParams) (*discordgo.Message, error)
}

// Ephemeral builds a message response only the invoking user can see.
func Ephemeral(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}

// Responder answers a single interaction. The first Reply is the initial
// response; every later Reply is sent as a follow-up.
type Responder struct {
	s         Sender
	i         *discordgo.Interaction
	responded bool
}

func New(s Sender, i *discordgo.Interaction) *Responder {
	return &Responder{s: s, i: i}
}

func (r *Responder) Responded() bool {
	return r.responded
}

func (r *Responder) Reply(content string) error {
	return r.send(Ephemeral(content))
}

// Error reports an unexpected failure without details.
func (r *Responder) Error() error {
	return r.send(GenericErrorResponse)
}

func (r *Responder) send(resp *discordgo.InteractionResponse) error {
	if !r.responded {
		if err := r.s.InteractionRespond(r.i, resp); err != nil {
			return err
		}
		r.responded = true
		return nil
	}

	_, err := r.s.FollowupMessageCreate(r.i, &discordgo.WebhookParams{
		Content: resp.Data.Content,
		Flags:   resp.Data.Flags,
	})
	return err
}
