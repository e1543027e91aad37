package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/audit"
	auditrepo "github.com/light-bringer/procat-web/internal/app/audit/repo"
	"github.com/light-bringer/procat-web/internal/app/identity/domain"
	identityrepo "github.com/light-bringer/procat-web/internal/app/identity/repo"
	"github.com/light-bringer/procat-web/internal/app/identity/usecases/update_user"
	"github.com/light-bringer/procat-web/internal/pkg/clock"
	"github.com/light-bringer/procat-web/internal/pkg/committer"
)

var (
	passwordEmail string
	printOnly     bool
)

var errEmptyPassword = errors.New("password must not be empty")

var setPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Set a user's password, read from stdin",
	Long: `Reads the new password from the first line of stdin.

With --print-only nothing is written; the bcrypt hash is printed instead,
ready for ADMIN_PASSWORD_HASH.`,
	RunE: runSetPassword,
}

func init() {
	setPasswordCmd.Flags().StringVar(&passwordEmail, "email", "", "Email of the user to update")
	setPasswordCmd.Flags().BoolVar(&printOnly, "print-only", false, "Print the bcrypt hash without touching the database")
}

func runSetPassword(cmd *cobra.Command, _ []string) error {
	password, err := readPassword(cmd.InOrStdin())
	if err != nil {
		return err
	}

	if printOnly {
		hash, err := domain.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	}
	if passwordEmail == "" {
		return errors.New("--email is required unless --print-only is set")
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()
	client, err := spannerClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	email, err := domain.NormalizeEmail(passwordEmail)
	if err != nil {
		return err
	}
	users := identityrepo.NewUserRepo(client)
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find %s: %w", email, err)
	}

	recorder := audit.NewAsyncRecorder(auditrepo.NewAuditRepo(client), logger, nil, 0)
	uc := update_user.NewInteractor(users, committer.NewCommitter(client), recorder, clock.NewRealClock(), logger)
	err = uc.Execute(ctx, &update_user.Request{
		UserID:   user.ID(),
		Password: password,
		Actor:    audit.Actor{Email: "catalogctl"},
	})
	if closeErr := recorder.Close(ctx); closeErr != nil {
		logger.Warn("audit entry not flushed", zap.Error(closeErr))
	}
	if err != nil {
		return err
	}

	logger.Info("password updated", zap.String("user_id", user.ID()))
	return nil
}

// readPassword returns the first line of r without its line ending.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errEmptyPassword
	}
	return password, nil
}
