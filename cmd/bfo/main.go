package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/app"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/config"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/encryption"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/organizer"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "Reorder", "Revert").
func newApp(ctx context.Context, operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(ctx, cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// readPassphrase prompts on stderr and reads a passphrase without echo.
func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(data), nil
}

var rootCmd = &cobra.Command{
	Use:   "bfo",
	Short: "Organize bookmark folders by the timestamp in their names",
}

// config command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		profileID := uuid.New().String()
		cfg := config.NewConfig(profileID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Profile ID: %s\n", profileID)
		fmt.Printf("Base Dir:   %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Profile ID: %s\n", cfg.ProfileID)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Store:      %s (%s)\n", cfg.Store.Type, cfg.Store.Path)
		fmt.Printf("Backups:    %s\n", cfg.Backups.Type)
		fmt.Printf("Encryption: %s\n", cfg.Encryption.Type)
		return nil
	},
}

// keys command

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage backup encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate an age key pair for backup encryption",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		passphrase, err := readPassphrase("Passphrase for the private key: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		enc := encryption.NewAgeEncryptor(cfg.Encryption)
		if err := enc.Setup(passphrase); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}

		fmt.Printf("Public key:  %s\n", cfg.Encryption.PublicKeyPath)
		fmt.Printf("Private key: %s\n", cfg.Encryption.PrivateKeyPath)
		fmt.Println(`Set encryption type to "age" in the config to encrypt new backups.`)
		return nil
	},
}

// import command

var importFresh bool

var importCmd = &cobra.Command{
	Use:   "import <bookmarks.json>",
	Short: "Import a Firefox bookmarks backup export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "Import")
		if err != nil {
			return err
		}
		defer a.Close()

		count, err := a.Import(ctx, args[0], importFresh)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d nodes.\n", count)
		return nil
	},
}

// tree command

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the bookmark folder tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "Tree")
		if err != nil {
			return err
		}
		defer a.Close()

		roots, err := a.FullTree(ctx)
		if err != nil {
			return fmt.Errorf("reading tree: %w", err)
		}

		if len(roots) == 0 {
			fmt.Println("No bookmarks. Run `bfo import` first.")
			return nil
		}

		layout := a.DateFormat(ctx)
		printTree(roots, layout, 0)
		return nil
	},
}

func printTree(records []organizer.FolderRecord, layout string, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, rec := range records {
		if rec.IsBookmark() {
			fmt.Printf("%s* %s\n", indent, rec.Title)
			continue
		}

		ts, ok := organizer.ExtractTimestamp(rec.Title)
		if ok {
			fmt.Printf("%s- %s  (%s)  [%s]\n", indent, rec.Title, organizer.FormatTimestamp(ts, layout), rec.ID)
		} else {
			fmt.Printf("%s- %s  [%s]\n", indent, rec.Title, rec.ID)
		}
		printTree(rec.Children, layout, depth+1)
	}
}

// reorder command

var reorderDryRun bool

var reorderCmd = &cobra.Command{
	Use:   "reorder <folder-id>",
	Short: "Sort a folder's subfolders by timestamp, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		parentID := args[0]

		a, err := newApp(ctx, "Reorder")
		if err != nil {
			return err
		}
		defer a.Close()

		if reorderDryRun {
			plan, err := a.Preview(ctx, parentID)
			if err != nil {
				return reorderError(err)
			}
			if plan.Moved == 0 {
				fmt.Println("Folder is already in order; nothing to move.")
				return nil
			}
			fmt.Printf("Would move %d folder(s):\n", plan.Moved)
			for _, instr := range plan.Instructions {
				fmt.Printf("  %s -> position %d\n", instr.RecordID, instr.Position)
			}
			return nil
		}

		result, err := a.Reorder(ctx, parentID)
		if err != nil {
			var mutation *organizer.MutationError
			if errors.As(err, &mutation) && result != nil {
				fmt.Printf("Reorder stopped after %d of %d moves; the folder is partially reordered.\n",
					result.Moved, result.Planned)
				fmt.Println("A backup was saved before any moves: run `bfo revert` to restore the previous order.")
				return err
			}
			return reorderError(err)
		}

		if result.Moved == 0 {
			fmt.Println("Folder is already in order; nothing to move.")
			return nil
		}
		fmt.Printf("Moved %d folder(s). Run `bfo revert %s` to undo.\n", result.Moved, parentID)
		return nil
	},
}

// reorderError maps planning failures to actionable messages.
func reorderError(err error) error {
	switch {
	case errors.Is(err, organizer.ErrNoRecords):
		return fmt.Errorf("this folder has no subfolders to organize")
	case errors.Is(err, organizer.ErrNoTimestampedRecords):
		return fmt.Errorf("no subfolder has a timestamp like 2025-01-01T00:00:00Z in its name")
	case errors.Is(err, organizer.ErrParentMissing):
		return fmt.Errorf("folder not found; check the ID with `bfo tree`")
	default:
		return err
	}
}

// revert command

var revertCmd = &cobra.Command{
	Use:   "revert <folder-id>",
	Short: "Restore a folder's order from its saved backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		parentID := args[0]

		a, err := newApp(ctx, "Revert")
		if err != nil {
			return err
		}
		defer a.Close()

		var dec organizer.DecryptionContext
		if a.BackupsEncrypted() {
			passphrase, err := readPassphrase("Passphrase to unlock backups: ")
			if err != nil {
				return err
			}
			dec, err = a.Encryptor().Unlock(passphrase)
			if err != nil {
				return fmt.Errorf("unlocking backups: %w", err)
			}
		}

		restored, err := a.Revert(ctx, parentID, dec)
		if err != nil {
			switch {
			case errors.Is(err, organizer.ErrInvalidBackup):
				return fmt.Errorf("no usable backup exists for this folder")
			case errors.Is(err, organizer.ErrParentMissing):
				return fmt.Errorf("folder not found; check the ID with `bfo tree`")
			case errors.Is(err, organizer.ErrNothingToRestore):
				return fmt.Errorf("none of the backed-up subfolders exist anymore; nothing to restore")
			default:
				return err
			}
		}

		fmt.Printf("Restored %d folder(s) to their previous positions.\n", restored)
		return nil
	},
}

// backups command

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "Manage reorder backups",
}

var backupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "Backups")
		if err != nil {
			return err
		}
		defer a.Close()

		backups, err := a.Backups(ctx)
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Println("No backups saved.")
			return nil
		}

		parents := make([]string, 0, len(backups))
		for parent := range backups {
			parents = append(parents, parent)
		}
		sort.Strings(parents)

		for _, parent := range parents {
			snap := backups[parent]
			state := fmt.Sprintf("%d entries", len(snap.Entries))
			if len(snap.Payload) > 0 {
				state = "encrypted"
			}
			fmt.Printf("%s  saved %s  (%s)\n", parent, snap.CreatedAt.Format("2006-01-02 15:04:05"), state)
		}
		return nil
	},
}

// prefs command

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage display preferences",
}

var prefsSetFormatCmd = &cobra.Command{
	Use:   "set-format <layout>",
	Short: `Set the date display layout ("YYYY-MM-DD", "DD-MM-YY", or "MM-DD-YY")`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "SetPreference")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SetDateFormat(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Date format set to %s.\n", args[0])
		return nil
	},
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "View display preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "Preferences")
		if err != nil {
			return err
		}
		defer a.Close()

		prefs, err := a.Preferences(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("date_format: %s\n", a.DateFormat(ctx))
		for name, value := range prefs {
			if name == organizer.PrefDateFormat {
				continue
			}
			fmt.Printf("%s: %s\n", name, value)
		}
		return nil
	},
}

// history command

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "History")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(ctx, historyLimit)
		if err != nil {
			return err
		}
		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			target := op.ParentID
			if target == "" {
				target = "-"
			}
			fmt.Printf("%s  %-8s  %-24s  moved=%d\n",
				op.CreatedAt.Format("2006-01-02 15:04:05"), op.Operation, target, op.Moved)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importFresh, "fresh", false, "clear existing bookmarks before importing")
	reorderCmd.Flags().BoolVar(&reorderDryRun, "dry-run", false, "print the move plan without applying it")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum operations to show")

	configCmd.AddCommand(configInitCmd, configListCmd)
	keysCmd.AddCommand(keysInitCmd)
	backupsCmd.AddCommand(backupsListCmd)
	prefsCmd.AddCommand(prefsSetFormatCmd, prefsListCmd)

	rootCmd.AddCommand(configCmd, keysCmd, importCmd, treeCmd, reorderCmd, revertCmd, backupsCmd, prefsCmd, historyCmd)
}
