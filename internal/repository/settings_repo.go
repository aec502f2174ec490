package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/krzotki/eleven-labs-demo/internal/model"
)

// SettingsRepository reads the per-user bot settings.
type SettingsRepository interface {
	// GetSettingsByExternalID returns nil when the user is not registered or has no settings.
	GetSettingsByExternalID(ctx context.Context, externalID string) (*model.BotSettings, error)
}

type settingsRepo struct {
	pool *pgxpool.Pool
}

// NewSettingsRepo creates a new SettingsRepository.
func NewSettingsRepo(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepo{pool: pool}
}

type insultRow struct {
	Insult string `json:"insult"`
}

func (r *settingsRepo) GetSettingsByExternalID(ctx context.Context, externalID string) (*model.BotSettings, error) {
	const q = `
		SELECT s.user_id,
		       COALESCE(s.language, ''),
		       COALESCE(s.league_region, ''),
		       COALESCE(s.league_name, ''),
		       COALESCE(s.league_tag, ''),
		       COALESCE(s.league_aliases, '[]'::jsonb),
		       COALESCE(s.custom_slurs, '[]'::jsonb),
		       COALESCE(s.encrypted_eleven_labs_api_key, ''),
		       COALESCE(s.eleven_labs_voice_id, ''),
		       s.using_eleven_labs_default
		FROM settings s
		JOIN users u ON u.id = s.user_id
		WHERE u.discord_id = $1
		LIMIT 1
	`
	var (
		st         model.BotSettings
		rawAliases []byte
		rawInsults []byte
	)
	err := r.pool.QueryRow(ctx, q, externalID).Scan(
		&st.UserID,
		&st.Language,
		&st.LeagueRegion,
		&st.LeagueName,
		&st.LeagueTag,
		&rawAliases,
		&rawInsults,
		&st.EncryptedElevenLabsKey,
		&st.ElevenLabsVoiceID,
		&st.UsingElevenLabsDefault,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch settings for external id %s: %w", externalID, err)
	}
	if err := json.Unmarshal(rawAliases, &st.Aliases); err != nil {
		return nil, fmt.Errorf("unmarshal league_aliases for user %s: %w", st.UserID, err)
	}
	var insults []insultRow
	if err := json.Unmarshal(rawInsults, &insults); err != nil {
		return nil, fmt.Errorf("unmarshal custom_slurs for user %s: %w", st.UserID, err)
	}
	for _, i := range insults {
		if i.Insult != "" {
			st.CustomInsults = append(st.CustomInsults, i.Insult)
		}
	}
	return &st, nil
}
