package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/lmittmann/tint"

	"rolebot/bot/logging"
	"rolebot/bot/models"
	"rolebot/bot/responses"
	"rolebot/bot/session"
	"rolebot/bot/store"
)

const (
	handlerTimeout = 10 * time.Second

	// Discord rejects message content longer than this
	maxContentLength = 2000
)

// CommandHandler runs one slash command. A returned error is logged and
// answered with a generic message.
type CommandHandler = func(ctx context.Context, r *responses.Responder, i *discordgo.InteractionCreate) error

// ComponentHandler runs one message component interaction, routed by the
// tag at the start of its custom id.
type ComponentHandler = func(ctx context.Context, r *responses.Responder, i *discordgo.InteractionCreate) error

func InteractionCreateHandler(st *store.Store, sess session.Session, log *slog.Logger) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	log = logging.Named(log, "interactions")

	var commandHandlers = map[string]CommandHandler{
		"autorole": autoroleCommandHandler(st, sess),
		"panel":    panelCommandHandler(st, sess, log),
	}

	var componentHandlers = map[string]ComponentHandler{
		models.RoleButtonTag: roleButtonHandler(st, sess, log),
	}

	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		log := log.With("interaction_id", i.ID, "guild_id", i.GuildID)
		r := responses.New(sess, i.Interaction)

		var handler func(ctx context.Context, r *responses.Responder, i *discordgo.InteractionCreate) error

		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			name := i.ApplicationCommandData().Name
			commandHandler, ok := commandHandlers[name]
			if !ok {
				return
			}
			log = log.With("command", name)
			handler = commandHandler

		case discordgo.InteractionMessageComponent:
			data := i.MessageComponentData()
			if data.ComponentType != discordgo.ButtonComponent {
				return
			}
			componentHandler, ok := componentHandlers[models.CustomIdTag(data.CustomID)]
			if !ok {
				if err := r.Reply(notConfigured); err != nil {
					log.Error("Could not reply to interaction", tint.Err(err))
				}
				return
			}
			log = log.With("custom_id", data.CustomID)
			handler = componentHandler

		default:
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		if err := safeRun(ctx, handler, r, i); err != nil {
			log.ErrorContext(ctx, "Interaction failed", tint.Err(err))
			if err := r.Error(); err != nil {
				log.ErrorContext(ctx, "Could not report failure to user", tint.Err(err))
			}
		}
	}
}

func safeRun(ctx context.Context, handler CommandHandler, r *responses.Responder, i *discordgo.InteractionCreate) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v\n%s", p, debug.Stack())
		}
	}()
	return handler(ctx, r, i)
}

type optionMap = map[string]*discordgo.ApplicationCommandInteractionDataOption

// subcommand returns the invoked subcommand and its options.
func subcommand(i *discordgo.InteractionCreate) (string, optionMap) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return "", optionMap{}
	}

	sub := options[0]
	subOptions := make(optionMap, len(sub.Options))
	for _, opt := range sub.Options {
		subOptions[opt.Name] = opt
	}
	return sub.Name, subOptions
}

// roleOption resolves a role option, using the role data sent along with the
// interaction when present.
func roleOption(i *discordgo.InteractionCreate, options optionMap, name string) (*discordgo.Role, bool) {
	opt, ok := options[name]
	if !ok {
		return nil, false
	}
	role := opt.RoleValue(nil, "")
	if resolved := i.ApplicationCommandData().Resolved; resolved != nil {
		if full, ok := resolved.Roles[role.ID]; ok {
			return full, true
		}
	}
	return role, true
}

func channelOption(i *discordgo.InteractionCreate, options optionMap, name string) (*discordgo.Channel, bool) {
	opt, ok := options[name]
	if !ok {
		return nil, false
	}
	channel := opt.ChannelValue(nil)
	if resolved := i.ApplicationCommandData().Resolved; resolved != nil {
		if full, ok := resolved.Channels[channel.ID]; ok {
			return full, true
		}
	}
	return channel, true
}

func stringOption(options optionMap, name string) (string, bool) {
	opt, ok := options[name]
	if !ok {
		return "", false
	}
	return opt.StringValue(), true
}

func intOption(options optionMap, name string) (int64, bool) {
	opt, ok := options[name]
	if !ok {
		return 0, false
	}
	return opt.IntValue(), true
}
