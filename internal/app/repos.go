package app

import (
	"gorm.io/gorm"

	approvalrepo "github.com/daftaros/daftar-backend/internal/data/repos/approval"
	daftarrepo "github.com/daftaros/daftar-backend/internal/data/repos/daftar"
	notificationrepo "github.com/daftaros/daftar-backend/internal/data/repos/notification"
	offerrepo "github.com/daftaros/daftar-backend/internal/data/repos/offer"
	pitchrepo "github.com/daftaros/daftar-backend/internal/data/repos/pitch"
	scoutrepo "github.com/daftaros/daftar-backend/internal/data/repos/scout"
	userrepo "github.com/daftaros/daftar-backend/internal/data/repos/user"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
)

type Repos struct {
	User         userrepo.UserRepo
	UserToken    userrepo.UserTokenRepo
	Daftar       daftarrepo.DaftarRepo
	Scout        scoutrepo.ScoutRepo
	Pitch        pitchrepo.PitchRepo
	Offer        offerrepo.OfferRepo
	ApprovalVote approvalrepo.ApprovalVoteRepo
	Notification notificationrepo.NotificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         userrepo.NewUserRepo(db, log),
		UserToken:    userrepo.NewUserTokenRepo(db, log),
		Daftar:       daftarrepo.NewDaftarRepo(db, log),
		Scout:        scoutrepo.NewScoutRepo(db, log),
		Pitch:        pitchrepo.NewPitchRepo(db, log),
		Offer:        offerrepo.NewOfferRepo(db, log),
		ApprovalVote: approvalrepo.NewApprovalVoteRepo(db, log),
		Notification: notificationrepo.NewNotificationRepo(db, log),
	}
}
