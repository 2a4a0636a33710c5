// Command admin is the operations CLI: role management plus manual sanction
// inspection and lifting for cases that bypass the appeal flow.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"descubre/internal/config"
	"descubre/internal/database"
	"descubre/internal/models"
	"descubre/internal/repository"

	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return errors.New(`usage: go run ./cmd/admin <command> [args]

  promote <user_id>                      grant the admin role
  demote <user_id>                       revoke the admin role
  list-admins                            list admin accounts
  sanctions <user_id>                    show an account's sanction state
  lift <user_id> <mute|ban> [reset]      lift a sanction; "reset" clears strikes`)
}

func run() error {
	if len(os.Args) < 2 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "promote":
		return setAdmin(db, os.Args[2:], true)
	case "demote":
		return setAdmin(db, os.Args[2:], false)
	case "list-admins":
		return listAdmins(db)
	case "sanctions":
		return showSanctions(ctx, db, os.Args[2:])
	case "lift":
		return liftSanction(ctx, db, os.Args[2:])
	default:
		return usage()
	}
}

func parseUserID(args []string) (uint, error) {
	if len(args) < 1 {
		return 0, errors.New("missing <user_id>")
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID %q: %w", args[0], err)
	}
	return uint(id), nil
}

func setAdmin(db *gorm.DB, args []string, admin bool) error {
	id, err := parseUserID(args)
	if err != nil {
		return err
	}

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d not found", id)
		}
		return err
	}

	if user.IsAdmin == admin {
		fmt.Printf("%s (ID %d) already has is_admin=%t\n", user.Username, user.ID, admin)
		return nil
	}

	user.IsAdmin = admin
	if err := db.Save(&user).Error; err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}

	verb := "promoted"
	if !admin {
		verb = "demoted"
	}
	fmt.Printf("%s %s (ID %d)\n", verb, user.Username, user.ID)
	return nil
}

func listAdmins(db *gorm.DB) error {
	var admins []models.User
	if err := db.Where("is_admin = ?", true).Find(&admins).Error; err != nil {
		return fmt.Errorf("fetch admins: %w", err)
	}

	if len(admins) == 0 {
		fmt.Println("no admin accounts")
		return nil
	}
	for _, admin := range admins {
		fmt.Printf("ID %d  %s  %s\n", admin.ID, admin.Username, admin.Email)
	}
	return nil
}

func showSanctions(ctx context.Context, db *gorm.DB, args []string) error {
	id, err := parseUserID(args)
	if err != nil {
		return err
	}

	state, err := repository.NewAccountStore(db).GetSanctionState(ctx, id)
	if err != nil {
		return fmt.Errorf("sanction state for user %d: %w", id, err)
	}

	fmt.Printf("user %d: strikes=%d banned=%t\n", id, state.StrikeCount, state.IsBanned)
	if state.IsBanned {
		fmt.Printf("  ban reason: %s\n", state.BanReason)
	}
	if state.MutedUntil != nil {
		fmt.Printf("  muted until %s (%s)\n", state.MutedUntil.Format("2006-01-02 15:04 MST"), state.MuteReason)
	}
	return nil
}

func liftSanction(ctx context.Context, db *gorm.DB, args []string) error {
	id, err := parseUserID(args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("missing sanction kind: mute or ban")
	}

	var kind models.AppealType
	switch strings.ToLower(args[1]) {
	case "mute":
		kind = models.AppealTypeMute
	case "ban":
		kind = models.AppealTypeBan
	default:
		return fmt.Errorf("unknown sanction kind %q: want mute or ban", args[1])
	}
	resetStrikes := len(args) > 2 && strings.EqualFold(args[2], "reset")

	if err := repository.NewAccountStore(db).LiftSanction(ctx, id, kind, resetStrikes); err != nil {
		return fmt.Errorf("lift %s for user %d: %w", kind, id, err)
	}

	fmt.Printf("lifted %s for user %d (strikes reset: %t)\n", kind, id, resetStrikes)
	return nil
}
