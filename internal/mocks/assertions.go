package mocks

import (
	"github.com/dtroode/certdash/internal/model"
)

var (
	_ model.UserStore         = (*UserStore)(nil)
	_ model.RefreshTokenStore = (*RefreshTokenStore)(nil)
	_ model.TokenManager      = (*TokenManager)(nil)
	_ model.SessionProvider   = (*SessionProvider)(nil)
	_ model.UserSkillStore    = (*UserSkillStore)(nil)
	_ model.SAOStore          = (*SAOStore)(nil)
	_ model.DocumentStore     = (*DocumentStore)(nil)
	_ model.DeadlineStore     = (*DeadlineStore)(nil)
	_ model.BlobStorage       = (*BlobStorage)(nil)
	_ model.ExperienceCounter = (*ExperienceCounter)(nil)
	_ model.LocalSlot         = (*LocalSlot)(nil)
	_ model.Identity          = (*Identity)(nil)
)
