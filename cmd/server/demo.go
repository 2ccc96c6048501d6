package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	accountmodels "profiles/internal/account/models"
	jwttoken "profiles/internal/jwt_token"
	id "profiles/pkg/domain"
)

const demoTokenTTL = 24 * time.Hour

// seedDemo registers two enabled accounts and logs bearer tokens for them so
// the API can be exercised locally without the account service.
func seedDemo(ctx context.Context, app *application, tokens *jwttoken.Service, log *slog.Logger) error {
	for _, number := range []string{"+14155550100", "+14155550101"} {
		account, err := demoAccount(number)
		if err != nil {
			return err
		}
		if err := app.saveAccount(ctx, account); err != nil {
			return fmt.Errorf("save demo account: %w", err)
		}
		token, err := tokens.IssueDeviceToken(account.ID, 1, demoTokenTTL)
		if err != nil {
			return err
		}
		log.Info("demo account ready",
			"account_id", account.ID.String(),
			"phone_number_id", account.PhoneNumberID.String(),
			"token", token,
		)
	}
	return nil
}

func demoAccount(number string) (*accountmodels.Account, error) {
	identityKey := make([]byte, 33)
	pniIdentityKey := make([]byte, 33)
	accessKey := make([]byte, 16)
	for _, b := range [][]byte{identityKey, pniIdentityKey, accessKey} {
		if _, err := rand.Read(b); err != nil {
			return nil, err
		}
	}
	return &accountmodels.Account{
		ID:                     id.AccountID(uuid.New()),
		PhoneNumberID:          id.PhoneNumberID(uuid.New()),
		Number:                 number,
		IdentityKey:            identityKey,
		PhoneNumberIdentityKey: pniIdentityKey,
		UnidentifiedAccessKey:  accessKey,
		Enabled:                true,
		Capabilities:           accountmodels.Capabilities{SenderKey: true, AnnouncementGroup: true},
	}, nil
}
