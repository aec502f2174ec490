package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/krzotki/eleven-labs-demo/internal/match"
	"github.com/krzotki/eleven-labs-demo/internal/model"
	"github.com/krzotki/eleven-labs-demo/internal/quota"
	"github.com/krzotki/eleven-labs-demo/internal/repository"
	"github.com/krzotki/eleven-labs-demo/internal/util"
	"github.com/rs/zerolog"
)

// MinMessageLength is the shortest generated text that is delivered and billed.
const MinMessageLength = 100

// minSpokenLength is the shortest number-spelled rewrite used for speech.
// Shorter rewrites lost content and the original text is spoken instead.
const minSpokenLength = 200

// Outcome is how a roast request ended.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeDenied    Outcome = "denied"
	OutcomeBusy      Outcome = "busy"
	OutcomeSoftError Outcome = "soft_error"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// RoastResult is the user-facing reply to a roast or joke. Err carries the cause for logging and
// is never shown to the user.
type RoastResult struct {
	Outcome Outcome                `json:"outcome"`
	Message string                 `json:"message"`
	Reason  quota.Reason           `json:"reason,omitempty"`
	Tier    model.SubscriptionType `json:"tier,omitempty"`
	Quality model.QualityTier      `json:"quality,omitempty"`
	Stats   *model.MatchStats      `json:"stats,omitempty"`
	Topic   string                 `json:"topic,omitempty"`
	Voice   *model.VoicePlan       `json:"voice,omitempty"`
	ClipURL string                 `json:"clip_url,omitempty"`
	Err     error                  `json:"-"`
}

// UsageReport describes a user's entitlement and consumption.
type UsageReport struct {
	Period  model.SubscriptionPeriod `json:"period"`
	Limits  model.Limits             `json:"limits"`
	Daily   model.Usage              `json:"daily"`
	Monthly model.Usage              `json:"monthly"`
	Quality model.QualityTier        `json:"quality"`
}

// RoastService turns a roast request into a reply.
type RoastService interface {
	// Roast never returns an error: every failure is mapped to a RoastResult.
	Roast(ctx context.Context, req RoastRequest) RoastResult
	// Joke shares the per-user lease with Roast and is billed in voice
	// characters only.
	Joke(ctx context.Context, req JokeRequest) RoastResult
	Usage(ctx context.Context, userID string) (*UsageReport, error)
	// Wait blocks until background audit writes have finished.
	Wait()
}

// RoastConfig holds the orchestrator's settings.
type RoastConfig struct {
	DashboardURL string
	SupportURL   string

	// CryptoKey decrypts user-supplied ElevenLabs keys.
	CryptoKey string

	MatchTimeout       time.Duration
	GenerationTimeout  time.Duration
	SpeechTimeout      time.Duration
	PersistenceTimeout time.Duration
}

func (c *RoastConfig) applyDefaults() {
	if c.MatchTimeout <= 0 {
		c.MatchTimeout = 15 * time.Second
	}
	if c.GenerationTimeout <= 0 {
		c.GenerationTimeout = 30 * time.Second
	}
	if c.SpeechTimeout <= 0 {
		c.SpeechTimeout = 30 * time.Second
	}
	if c.PersistenceTimeout <= 0 {
		c.PersistenceTimeout = 10 * time.Second
	}
}

// RoastDependencies are the collaborators of the orchestrator. Speech, Voices
// and Clips are optional.
type RoastDependencies struct {
	Settings     repository.SettingsRepository
	Entitlements EntitlementService
	Usage        UsageService
	Limits       LimitsService
	Matches      MatchProvider
	Generator    ContentGenerator
	Audit        AuditService

	Speech SpeechSynthesizer
	Voices VoiceCatalog
	Clips  ClipStore

	// Numbers rewrites digits as words before a roast is spoken.
	Numbers NumberSpeller

	// BotVoiceKey is the bot's own ElevenLabs key used for catalog voices.
	BotVoiceKey string
}

type roastService struct {
	cfg      RoastConfig
	deps     RoastDependencies
	leases   LeaseRegistry
	failures *FailureTracker
	audits   sync.WaitGroup
	logger   zerolog.Logger
}

// NewRoastService creates the request orchestrator.
func NewRoastService(cfg RoastConfig, deps RoastDependencies, logger zerolog.Logger) RoastService {
	cfg.applyDefaults()
	return &roastService{
		cfg:      cfg,
		deps:     deps,
		failures: NewFailureTracker(),
		logger:   logger.With().Str("service", "RoastService").Logger(),
	}
}

// generationAttempt is one entry of the generation fallback list.
type generationAttempt struct {
	name    string
	insults bool
}

// generationAttempts is tried in order until one succeeds: first with the
// full context, then without custom insults.
var generationAttempts = []generationAttempt{
	{name: "full", insults: true},
	{name: "reduced", insults: false},
}

func (s *roastService) Roast(ctx context.Context, req RoastRequest) RoastResult {
	release, ok := s.leases.Acquire(req.UserID)
	if !ok {
		return s.finish("roast", req.UserID, RoastResult{Outcome: OutcomeBusy, Message: msgBusy})
	}
	defer release()

	res := s.roast(ctx, req)
	return s.finish("roast", req.UserID, res)
}

func (s *roastService) Joke(ctx context.Context, req JokeRequest) RoastResult {
	release, ok := s.leases.Acquire(req.UserID)
	if !ok {
		return s.finish("joke", req.UserID, RoastResult{Outcome: OutcomeBusy, Message: msgBusy})
	}
	defer release()

	res := s.joke(ctx, req)
	return s.finish("joke", req.UserID, res)
}

// finish logs the result and appends the help hint every few failures.
func (s *roastService) finish(command, userID string, res RoastResult) RoastResult {
	ev := s.logger.Info()
	if res.Outcome == OutcomeFailed {
		ev = s.logger.Error().Err(res.Err)
	}
	ev.Str("command", command).Str("user_id", userID).Str("outcome", string(res.Outcome)).Str("reason", string(res.Reason)).Msg("Request finished")

	if res.Outcome == OutcomeDelivered {
		s.failures.Success(userID)
		return res
	}
	if s.failures.Failure(userID) && s.cfg.SupportURL != "" {
		res.Message += "\n" + fmt.Sprintf(msgHelpHint, s.cfg.SupportURL)
	}
	return res
}

func (s *roastService) roast(ctx context.Context, req RoastRequest) RoastResult {
	settings := s.settings(ctx, req.UserID)

	opts, err := ResolveOptions(req, settings)
	if err != nil {
		return RoastResult{Outcome: OutcomeRejected, Message: err.Error(), Err: err}
	}

	period := s.deps.Entitlements.Resolve(ctx, opts.UserID)

	var chosen *model.Voice
	if opts.VoiceID != "" {
		if res, stop := s.checkChosenVoice(ctx, opts.VoiceID, period, &chosen); stop {
			res.Tier = period.Type
			return res
		}
	}

	limits := s.deps.Limits.For(period.Type)

	usageCtx, cancel := context.WithTimeout(ctx, s.cfg.PersistenceTimeout)
	usage, err := s.deps.Usage.GetUsage(usageCtx, opts.UserID, period)
	cancel()
	if err != nil {
		return RoastResult{Outcome: OutcomeFailed, Message: msgGenericError, Tier: period.Type, Err: err}
	}

	quality := quota.SelectQuality(limits, usage.Monthly)
	customMode := settings.CustomVoiceMode()
	credential := s.voiceCredential(settings)

	in := quota.Input{
		Limits:             limits,
		Daily:              usage.Daily,
		Monthly:            usage.Monthly,
		VoiceRequested:     opts.Voice,
		CustomVoiceMode:    customMode,
		ExplicitVoice:      opts.VoiceID != "",
		HasVoiceCredential: credential != "",
	}
	if d := quota.Evaluate(in); !d.Allowed {
		return RoastResult{
			Outcome: OutcomeDenied,
			Reason:  d.Reason,
			Message: DenialMessage(d.Reason, limits, s.cfg.DashboardURL),
			Tier:    period.Type,
			Quality: quality,
			Err:     &QuotaExceededError{Reason: d.Reason},
		}
	}

	stats, err := s.analyze(ctx, opts, settings.AliasMap())
	if err != nil {
		return s.matchFailure(opts, period, err)
	}

	var plan *model.VoicePlan
	if opts.Voice {
		plan = s.voicePlan(ctx, in, settings, credential, chosen)
	}

	message, err := s.generate(ctx, opts, stats, quality, settings, plan)
	if err != nil {
		return RoastResult{Outcome: OutcomeFailed, Message: msgGenericError, Tier: period.Type, Quality: quality, Err: err}
	}
	if utf8.RuneCountInString(message) < MinMessageLength {
		return RoastResult{Outcome: OutcomeSoftError, Message: message, Tier: period.Type, Quality: quality, Stats: &stats}
	}

	voiceChars := 0
	if opts.Voice && !customMode {
		voiceChars = utf8.RuneCountInString(message)
	}
	incCtx, cancel := context.WithTimeout(ctx, s.cfg.PersistenceTimeout)
	if err := s.deps.Usage.IncreaseUsage(incCtx, usage.RecordID, usage.Daily, voiceChars, false); err != nil {
		s.logger.Error().Err(err).Str("user_id", opts.UserID).Msg("Usage increment lost")
	}
	cancel()

	res := RoastResult{
		Outcome: OutcomeDelivered,
		Message: message,
		Tier:    period.Type,
		Quality: quality,
		Stats:   &stats,
		Voice:   plan,
	}
	if plan != nil && s.deps.Speech != nil {
		res.ClipURL = s.speak(ctx, opts.UserID, *plan, s.spokenText(ctx, message, opts.Language))
	}

	s.audit(&model.GeneratedMessage{
		ID:       uuid.NewString(),
		UserID:   opts.UserID,
		Language: string(opts.Language),
		Message:  message,
		Type:     period.Type,
		Variables: model.GenerationVariables{
			Model:         quality,
			Stats:         stats,
			CustomInsults: customInsults(settings),
			Aliases:       settings.AliasMap(),
			VoiceName:     voiceName(plan),
		},
		CreatedAt: time.Now(),
	})
	return res
}

func (s *roastService) joke(ctx context.Context, req JokeRequest) RoastResult {
	settings := s.settings(ctx, req.UserID)

	opts, err := ResolveJokeOptions(req, settings)
	if err != nil {
		return RoastResult{Outcome: OutcomeRejected, Message: err.Error(), Err: err}
	}
	if opts.Topic == "" {
		opts.Topic = JokeTopics[rand.IntN(len(JokeTopics))]
	}

	period := s.deps.Entitlements.Resolve(ctx, opts.UserID)

	var chosen *model.Voice
	if opts.VoiceID != "" {
		if res, stop := s.checkChosenVoice(ctx, opts.VoiceID, period, &chosen); stop {
			res.Tier = period.Type
			return res
		}
	}

	limits := s.deps.Limits.For(period.Type)

	usageCtx, cancel := context.WithTimeout(ctx, s.cfg.PersistenceTimeout)
	usage, err := s.deps.Usage.GetUsage(usageCtx, opts.UserID, period)
	cancel()
	if err != nil {
		return RoastResult{Outcome: OutcomeFailed, Message: msgGenericError, Tier: period.Type, Err: err}
	}

	customMode := settings.CustomVoiceMode()
	credential := s.voiceCredential(settings)
	in := quota.Input{
		Limits:             limits,
		Daily:              usage.Daily,
		Monthly:            usage.Monthly,
		VoiceRequested:     opts.Voice,
		CustomVoiceMode:    customMode,
		ExplicitVoice:      opts.VoiceID != "",
		HasVoiceCredential: credential != "",
	}
	if d := quota.EvaluateVoice(in); !d.Allowed {
		return RoastResult{
			Outcome: OutcomeDenied,
			Reason:  d.Reason,
			Message: DenialMessage(d.Reason, limits, s.cfg.DashboardURL),
			Tier:    period.Type,
			Quality: model.QualityRich,
			Topic:   opts.Topic,
			Err:     &QuotaExceededError{Reason: d.Reason},
		}
	}

	var plan *model.VoicePlan
	if opts.Voice {
		plan = s.voicePlan(ctx, in, settings, credential, chosen)
	}

	genReq := JokeGenerationRequest{Topic: opts.Topic, Language: opts.Language, Quality: model.QualityRich}
	if plan != nil && plan.Voice != nil {
		genReq.VoiceStyle = plan.Voice.Description
	}
	genCtx, cancel := context.WithTimeout(ctx, s.cfg.GenerationTimeout)
	message, err := s.deps.Generator.GenerateJoke(genCtx, genReq)
	cancel()
	if err != nil {
		return RoastResult{Outcome: OutcomeFailed, Message: msgGenericError, Tier: period.Type, Quality: model.QualityRich, Topic: opts.Topic, Err: err}
	}

	voiceChars := 0
	if opts.Voice && !customMode {
		voiceChars = utf8.RuneCountInString(message)
	}
	incCtx, cancel := context.WithTimeout(ctx, s.cfg.PersistenceTimeout)
	if err := s.deps.Usage.IncreaseUsage(incCtx, usage.RecordID, usage.Daily, voiceChars, true); err != nil {
		s.logger.Error().Err(err).Str("user_id", opts.UserID).Msg("Usage increment lost")
	}
	cancel()

	res := RoastResult{
		Outcome: OutcomeDelivered,
		Message: message,
		Tier:    period.Type,
		Quality: model.QualityRich,
		Topic:   opts.Topic,
		Voice:   plan,
	}
	if plan != nil {
		res.ClipURL = s.speak(ctx, opts.UserID, *plan, message)
	}
	return res
}

func (s *roastService) settings(ctx context.Context, userID string) *model.BotSettings {
	if s.deps.Settings == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.PersistenceTimeout)
	defer cancel()
	st, err := s.deps.Settings.GetSettingsByExternalID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load settings, using defaults")
		return nil
	}
	return st
}

// checkChosenVoice validates an explicitly picked catalog voice. Premium
// voices are refused for FREEMIUM users before any quota is looked at.
func (s *roastService) checkChosenVoice(ctx context.Context, voiceID string, period model.SubscriptionPeriod, chosen **model.Voice) (RoastResult, bool) {
	if s.deps.Voices == nil {
		err := newValidationError(msgUnknownVoice)
		return RoastResult{Outcome: OutcomeRejected, Message: msgUnknownVoice, Err: err}, true
	}
	v, err := s.deps.Voices.Find(ctx, voiceID)
	if err != nil {
		return RoastResult{Outcome: OutcomeFailed, Message: msgGenericError, Err: err}, true
	}
	if v == nil {
		err := newValidationError(msgUnknownVoice)
		return RoastResult{Outcome: OutcomeRejected, Message: msgUnknownVoice, Err: err}, true
	}
	if v.Premium && period.Type == model.SubscriptionFreemium {
		msg := fmt.Sprintf(msgPremiumVoice, s.cfg.DashboardURL)
		return RoastResult{Outcome: OutcomeRejected, Message: msg, Err: newValidationError("%s", msg)}, true
	}
	*chosen = v
	return RoastResult{}, false
}

// voiceCredential decrypts the user's ElevenLabs key. Failures count as no key.
func (s *roastService) voiceCredential(settings *model.BotSettings) string {
	if settings == nil || settings.EncryptedElevenLabsKey == "" || s.cfg.CryptoKey == "" {
		return ""
	}
	key, err := util.Decrypt(settings.EncryptedElevenLabsKey, s.cfg.CryptoKey)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", settings.UserID).Msg("Failed to decrypt ElevenLabs key")
		return ""
	}
	return key
}

func (s *roastService) analyze(ctx context.Context, opts RoastOptions, aliases map[string]string) (model.MatchStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.MatchTimeout)
	defer cancel()

	puuid, err := s.deps.Matches.ResolvePUUID(ctx, opts.Platform, opts.PlayerName, opts.TagLine)
	if err != nil {
		return model.MatchStats{}, err
	}

	matchID := ""
	if opts.GameID != "" {
		matchID = opts.Platform.MatchID(opts.GameID)
	} else {
		ids, err := s.deps.Matches.MatchIDs(ctx, opts.Platform, puuid)
		if err != nil {
			return model.MatchStats{}, err
		}
		if opts.GameIndex > len(ids) {
			return model.MatchStats{}, fmt.Errorf("match #%d: %w", opts.GameIndex, errMatchNotFound)
		}
		matchID = ids[opts.GameIndex-1]
	}

	m, err := s.deps.Matches.Match(ctx, opts.Platform, matchID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.MatchStats{}, fmt.Errorf("%s: %w", matchID, errMatchNotFound)
		}
		return model.MatchStats{}, err
	}
	return match.Analyze(m, puuid, opts.PlayerName, aliases)
}

var errMatchNotFound = fmt.Errorf("match %w", ErrNotFound)

func (s *roastService) matchFailure(opts RoastOptions, period model.SubscriptionPeriod, err error) RoastResult {
	res := RoastResult{Tier: period.Type, Err: err}
	player := opts.PlayerName
	if opts.TagLine != "" {
		player += "#" + opts.TagLine
	}
	switch {
	case errors.Is(err, errMatchNotFound), errors.Is(err, match.ErrParticipantNotFound):
		res.Outcome, res.Message = OutcomeRejected, msgMatchMissing
	case errors.Is(err, ErrNotFound):
		res.Outcome, res.Message = OutcomeRejected, fmt.Sprintf(msgPlayerMissing, player)
	default:
		res.Outcome, res.Message = OutcomeFailed, msgGenericError
	}
	return res
}

// voicePlan picks the synthesis backend. Custom-voice accounts use their own
// key; catalog accounts use ElevenLabs while the allowance lasts, then OpenAI.
func (s *roastService) voicePlan(ctx context.Context, in quota.Input, settings *model.BotSettings, credential string, chosen *model.Voice) *model.VoicePlan {
	if in.CustomVoiceMode {
		voiceID := settings.ElevenLabsVoiceID
		if voiceID == "" {
			voiceID = DefaultCustomVoiceID
		}
		return &model.VoicePlan{Provider: model.SpeechElevenLabs, VoiceID: voiceID, APIKey: credential}
	}
	if quota.CanUseCatalogVoice(in) && s.deps.Voices != nil {
		v := chosen
		if v == nil {
			var err error
			if v, err = s.deps.Voices.Default(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("No default catalog voice, falling back to OpenAI speech")
				return &model.VoicePlan{Provider: model.SpeechOpenAI}
			}
		}
		return &model.VoicePlan{Provider: model.SpeechElevenLabs, VoiceID: v.ID, APIKey: s.deps.BotVoiceKey, Voice: v}
	}
	return &model.VoicePlan{Provider: model.SpeechOpenAI}
}

func (s *roastService) generate(ctx context.Context, opts RoastOptions, stats model.MatchStats, quality model.QualityTier, settings *model.BotSettings, plan *model.VoicePlan) (string, error) {
	req := GenerationRequest{
		Stats:    stats,
		Language: opts.Language,
		Quality:  quality,
	}
	if plan != nil && plan.Voice != nil {
		req.VoiceStyle = plan.Voice.Description
	}

	var errs []error
	for _, a := range generationAttempts {
		req.CustomInsults = nil
		if a.insults {
			req.CustomInsults = customInsults(settings)
		}
		genCtx, cancel := context.WithTimeout(ctx, s.cfg.GenerationTimeout)
		msg, err := s.deps.Generator.Generate(genCtx, req)
		cancel()
		if err == nil {
			return msg, nil
		}
		s.logger.Warn().Err(err).Str("attempt", a.name).Str("user_id", opts.UserID).Msg("Generation attempt failed")
		errs = append(errs, err)
	}
	return "", errors.Join(errs...)
}

// spokenText spells out the numbers of a roast for speech. Any failure falls
// back to the text as generated.
func (s *roastService) spokenText(ctx context.Context, message string, lang model.Language) string {
	if s.deps.Numbers == nil || !strings.ContainsFunc(message, unicode.IsDigit) {
		return message
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GenerationTimeout)
	defer cancel()
	spoken, err := s.deps.Numbers.SpellNumbers(ctx, message, lang)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to spell out numbers, speaking the original text")
		return message
	}
	spoken = strings.ReplaceAll(spoken, "**", "")
	if utf8.RuneCountInString(spoken) <= minSpokenLength {
		return message
	}
	return spoken
}

// speak synthesizes and stores the clip. Failures are logged and leave the
// text reply intact.
func (s *roastService) speak(ctx context.Context, userID string, plan model.VoicePlan, message string) string {
	if s.deps.Speech == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SpeechTimeout)
	defer cancel()
	audio, err := s.deps.Speech.Synthesize(ctx, plan, message)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("provider", string(plan.Provider)).Msg("Speech synthesis failed")
		return ""
	}
	if s.deps.Clips == nil {
		return ""
	}
	url, err := s.deps.Clips.Save(ctx, userID, audio)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to store clip")
		return ""
	}
	return url
}

// audit writes the audit record in the background.
func (s *roastService) audit(m *model.GeneratedMessage) {
	if s.deps.Audit == nil {
		return
	}
	s.audits.Add(1)
	go func() {
		defer s.audits.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PersistenceTimeout)
		defer cancel()
		if err := s.deps.Audit.Record(ctx, m); err != nil {
			s.logger.Error().Err(err).Str("user_id", m.UserID).Msg("Audit write failed")
		}
	}()
}

func (s *roastService) Wait() {
	s.audits.Wait()
}

func (s *roastService) Usage(ctx context.Context, userID string) (*UsageReport, error) {
	if userID == "" {
		return nil, newValidationError("missing user id")
	}
	period := s.deps.Entitlements.Resolve(ctx, userID)
	limits := s.deps.Limits.For(period.Type)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.PersistenceTimeout)
	defer cancel()
	usage, err := s.deps.Usage.Snapshot(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	return &UsageReport{
		Period:  period,
		Limits:  limits,
		Daily:   usage.Daily,
		Monthly: usage.Monthly,
		Quality: quota.SelectQuality(limits, usage.Monthly),
	}, nil
}

func customInsults(settings *model.BotSettings) []string {
	if settings == nil {
		return nil
	}
	return settings.CustomInsults
}

func voiceName(plan *model.VoicePlan) string {
	if plan == nil || plan.Voice == nil {
		return ""
	}
	return plan.Voice.Name
}
