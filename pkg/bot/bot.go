// Package bot wires the motion core together and runs its lifecycle:
// connect, park at rest, animate while idle, gesture on responses,
// and tear down in an order that can never race a command against a
// closed link.
package bot

import (
	"context"
	"math/rand"
	"sync"

	"github.com/rufuslabs/go-rufus/internal/log"
	"github.com/rufuslabs/go-rufus/pkg/convo"
	"github.com/rufuslabs/go-rufus/pkg/link"
	"github.com/rufuslabs/go-rufus/pkg/motion"
	"github.com/rufuslabs/go-rufus/pkg/servo"
)

// Config holds bot construction parameters. Data only; flag and env
// parsing happen in cmd and internal/config.
type Config struct {
	// Link configuration. Ignored when Line is set.
	Link link.Config

	// Line overrides the serial connection; tests use a fake, and a
	// nil line with SkipConnect runs the bot in simulation mode.
	Line motion.Line

	// SkipConnect disables the serial connect attempt entirely.
	SkipConnect bool

	// Idle animator tuning.
	Idle motion.AnimatorConfig

	// NoIdle leaves the idle animator stopped.
	NoIdle bool

	// Rand seeds movement randomness. Nil means time-seeded.
	Rand *rand.Rand

	// Collaborators. Nil fields fall back to a silent mock so the
	// motion core works with no AI backend attached.
	Responder convo.Responder
	Speaker   convo.Speaker
}

// DefaultConfig returns a config with stock hardware parameters.
func DefaultConfig() Config {
	return Config{
		Link: link.DefaultConfig(),
		Idle: motion.DefaultAnimatorConfig(),
	}
}

// Bot is the coordinator instance. One per process; no ambient
// globals.
type Bot struct {
	cfg Config

	registry *servo.Registry
	link     *link.Link // nil in simulation mode
	channel  *motion.Channel
	arbiter  *motion.Arbiter
	engine   *motion.Engine
	idle     *motion.Animator

	responder convo.Responder
	speaker   convo.Speaker

	shutdownOnce sync.Once
}

// Status is a snapshot of the coordinator for status reporting.
type Status struct {
	LinkState string   `json:"link_state"`
	Available bool     `json:"available"`
	IdleState string   `json:"idle_state"`
	Gestures  []string `json:"gestures"`
	Joints    []string `json:"joints"`
}

// New builds the coordinator. A failed serial connect is not fatal:
// the bot degrades to simulation mode where every send is a no-op and
// all gesture logic still runs.
func New(cfg Config) *Bot {
	b := &Bot{
		cfg:      cfg,
		registry: servo.Default(),
	}

	line := cfg.Line
	if line == nil && !cfg.SkipConnect {
		l, err := link.Connect(cfg.Link)
		if err != nil {
			log.Warn("no servo controller found, running in simulation mode", "err", err)
		} else {
			b.link = l
			line = l
		}
	}

	b.channel = motion.NewChannel(b.registry, line)
	b.arbiter = motion.NewArbiter()
	b.engine = motion.NewEngine(b.channel, b.arbiter, b.registry)
	b.idle = motion.NewAnimator(b.channel, b.registry, b.arbiter, cfg.Rand, cfg.Idle)

	b.responder = cfg.Responder
	if b.responder == nil {
		b.responder = &convo.Mock{}
	}
	b.speaker = cfg.Speaker
	if b.speaker == nil {
		b.speaker = &convo.Mock{}
	}

	return b
}

// Init parks the servos at rest and starts the idle animator.
func (b *Bot) Init() {
	b.engine.Rest()
	if !b.cfg.NoIdle {
		b.idle.Start()
	}
	log.Info("bot initialized", "link", b.LinkState().String())
}

// Respond runs one full response cycle: think, gesture, speak. The
// whole cycle holds suppression so the idle animator stays quiet from
// first to last step. Hardware failures never surface here; only the
// conversation collaborator can fail the cycle.
func (b *Bot) Respond(ctx context.Context, userInput string) (string, error) {
	release := b.arbiter.Suppress()
	defer release()

	response, err := b.responder.Respond(ctx, userInput)
	if err != nil {
		return "", err
	}

	category := convo.Categorize(response)
	b.engine.Perform(motion.GestureForCategory(category))

	if err := b.speaker.Say(ctx, response); err != nil {
		log.Warn("speech failed", "err", err)
	}
	return response, nil
}

// Perform runs a named gesture. False for unknown names.
func (b *Bot) Perform(name string) bool {
	return b.engine.Perform(name)
}

// Move drives one joint as a foreground activity.
func (b *Bot) Move(joint string, angle int) (motion.Outcome, error) {
	return b.engine.Move(joint, angle)
}

// Gestures lists the gesture vocabulary.
func (b *Bot) Gestures() []string {
	return b.engine.Names()
}

// LinkState reports the serial link state; disconnected when running
// without hardware.
func (b *Bot) LinkState() link.State {
	if b.link == nil {
		if b.cfg.Line != nil {
			return b.cfg.Line.State()
		}
		return link.StateDisconnected
	}
	return b.link.State()
}

// Status returns a snapshot for the API and CLI.
func (b *Bot) Status() Status {
	return Status{
		LinkState: b.LinkState().String(),
		Available: b.channel.Available(),
		IdleState: idleStateName(b.idle.State()),
		Gestures:  b.engine.Names(),
		Joints:    b.registry.Names(),
	}
}

// Shutdown tears the coordinator down in the only safe order:
// suppress permanently, join the idle animator, park the servos, then
// close the link. Idempotent.
func (b *Bot) Shutdown() {
	b.shutdownOnce.Do(func() {
		log.Info("shutting down")
		b.arbiter.BeginShutdown()
		b.idle.Stop()
		b.engine.Rest()
		if b.link != nil {
			if err := b.link.Close(); err != nil {
				log.Warn("link close failed", "err", err)
			}
		}
	})
}

func idleStateName(s motion.RunState) string {
	switch s {
	case motion.RunRunning:
		return "running"
	case motion.RunStopRequested:
		return "stop_requested"
	default:
		return "stopped"
	}
}
