package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/trackpull-go/api"
	"github.com/yourusername/trackpull-go/internal/app"
	"github.com/yourusername/trackpull-go/internal/domain"
	"github.com/yourusername/trackpull-go/internal/infrastructure"
	"github.com/yourusername/trackpull-go/internal/relay"
	"github.com/yourusername/trackpull-go/pkg/logger"
)

var (
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "trackpull",
		Short: "Trackpull CLI - Download and convert media through the conversion service",
		Long:  `A command-line client that submits media URLs to the conversion service and saves the returned file locally.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Download a media URL and save the converted file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		if config.API.BaseURL == "" {
			fatal("api.base_url is not configured (set TRACKPULL_API_BASE_URL or a config file)")
		}
		log := mustLogger(config)
		defer log.Sync()

		provider, _ := cmd.Flags().GetString("provider")
		format, _ := cmd.Flags().GetString("format")
		quality, _ := cmd.Flags().GetString("quality")
		eqPreset, _ := cmd.Flags().GetString("eq")
		volume, _ := cmd.Flags().GetString("volume")
		trimStart, _ := cmd.Flags().GetString("trim-start")
		trimEnd, _ := cmd.Flags().GetString("trim-end")
		cookies, _ := cmd.Flags().GetString("cookies")
		outDir, _ := cmd.Flags().GetString("out")
		noHistory, _ := cmd.Flags().GetBool("no-history")

		if provider == "" {
			provider = config.Defaults.Provider
		}
		if format == "" {
			format = config.Defaults.Format
		}
		if quality == "" {
			quality = config.Defaults.Quality
		}
		if eqPreset == "" {
			eqPreset = config.Defaults.EQPreset
		}
		if volume == "" && config.Defaults.Volume != 0 {
			volume = strconv.FormatFloat(config.Defaults.Volume, 'f', -1, 64)
		}
		if outDir == "" {
			outDir = config.Output.Dir
		}
		if cookies == "" {
			cookies = loadStoredCredential(config, log)
		}
		if cookies != "" && !domain.CookieHeaderLooksValid(cookies) {
			fmt.Fprintln(os.Stderr, "Warning: cookie value does not look like a cookie header, sending anyway")
		}

		form := domain.FormState{
			SourceURL: args[0],
			Provider:  domain.Provider(provider),
			Format:    domain.Format(format),
			Quality:   quality,
			EQPreset:  domain.EQPreset(eqPreset),
			Volume:    volume,
			TrimStart: trimStart,
			TrimEnd:   trimEnd,
			Cookies:   cookies,
		}

		var repo domain.TransferRepository
		if !noHistory {
			repo = mustOpenRepository(config)
		}

		client := infrastructure.NewClient(config.API.BaseURL, log)
		saver := infrastructure.NewFileSaver(outDir, log)
		notifier := infrastructure.NewNotificationService(&config.Notification, log)
		orch := app.NewOrchestrator(client, saver, repo, notifier, &config.API, log)

		progress := func(percent int) {
			fmt.Fprintf(os.Stderr, "\rDownloading: %d%%", percent)
		}

		transfer, err := orch.Submit(context.Background(), form, progress)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			if transfer != nil && transfer.ErrorMessage != "" {
				fatal(transfer.ErrorMessage)
			}
			fatal(err.Error())
		}

		fmt.Printf("Saved: %s\n", transfer.SavedPath)
	},
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Collect a credential through the local authorization page",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		log := mustLogger(config)
		defer log.Sync()

		addr := fmt.Sprintf("%s:%d", config.Relay.Host, config.Relay.Port)
		origin := "http://" + addr

		authRelay := relay.New(origin, log)
		if err := authRelay.Open(); err != nil {
			fatal(err.Error())
		}
		defer authRelay.Close()

		router := api.SetupRouter(authRelay, log)
		server := &http.Server{Addr: addr, Handler: router}

		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}()
		defer shutdownServer(server)

		fmt.Printf("Open %s/auth in your browser to authorize.\n", origin)
		fmt.Println("Waiting for the handshake (Ctrl-C to abort)...")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		for {
			select {
			case msg := <-authRelay.Messages():
				switch m := msg.(type) {
				case relay.AuthSuccess:
					if !domain.CookieHeaderLooksValid(m.Cookies) {
						fmt.Fprintln(os.Stderr, "Warning: credential does not look like a cookie header, storing anyway")
					}
					if err := storeCredential(config, m.Cookies); err != nil {
						fatal(fmt.Sprintf("failed to store credential: %v", err))
					}
					fmt.Printf("%s\n", authRelay.Session().StatusMessage)
					fmt.Printf("Credential saved to %s\n", config.Auth.CookieFile)
					return
				case relay.AuthFailed:
					// The page stays usable; keep waiting for a retry.
					fmt.Printf("%s, waiting for retry...\n", authRelay.Session().StatusMessage)
				}
			case <-sigCh:
				fmt.Println("\nAborted")
				return
			}
		}
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past transfers",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		repo := mustOpenRepository(config)

		phase, _ := cmd.Flags().GetString("phase")

		var transfers []*domain.Transfer
		var err error
		if phase != "" {
			transfers, err = repo.FindByPhase(domain.Phase(phase))
		} else {
			transfers, err = repo.FindAll()
		}
		if err != nil {
			fatal(err.Error())
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tURL\tPROVIDER\tPHASE\tFILE\tCREATED")
		for _, t := range transfers {
			file := t.ResultFilename
			if file == "" {
				file = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				truncate(t.ID, 8),
				truncate(t.URL, 40),
				t.Provider,
				t.Phase,
				truncate(file, 30),
				t.CreatedAt.Format("2006-01-02 15:04"))
		}
		w.Flush()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show transfer statistics",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustLoadConfig()
		repo := mustOpenRepository(config)

		stats, err := repo.GetStats()
		if err != nil {
			fatal(err.Error())
		}

		fmt.Println("Transfer Statistics:")
		fmt.Printf("  Total:     %d\n", stats.Total)
		fmt.Printf("  In flight: %d\n", stats.InFlight)
		fmt.Printf("  Succeeded: %d\n", stats.Succeeded)
		fmt.Printf("  Failed:    %d\n", stats.Failed)
	},
}

func init() {
	fetchCmd.Flags().StringP("provider", "p", "", "Provider (audio, rutube)")
	fetchCmd.Flags().StringP("format", "f", "", "Output format (mp3, aac, flac, opus, mp4)")
	fetchCmd.Flags().StringP("quality", "q", "", "Bitrate or resolution, provider-dependent")
	fetchCmd.Flags().String("eq", "", "Equalizer preset (none, bass_boost, treble_boost, vocal_boost, flat)")
	fetchCmd.Flags().String("volume", "", "Volume multiplier, 0.5 to 2.0")
	fetchCmd.Flags().String("trim-start", "", "Trim start, MM:SS")
	fetchCmd.Flags().String("trim-end", "", "Trim end, MM:SS")
	fetchCmd.Flags().StringP("cookies", "c", "", "Cookie header value for full-quality downloads")
	fetchCmd.Flags().StringP("out", "o", "", "Output directory")
	fetchCmd.Flags().Bool("no-history", false, "Don't record this transfer in history")
	historyCmd.Flags().StringP("phase", "s", "", "Filter by phase (succeeded, failed)")
}

func mustLoadConfig() *domain.Config {
	config, err := app.LoadConfig(configPath)
	if err != nil {
		fatal(fmt.Sprintf("failed to load config: %v", err))
	}
	return config
}

func mustLogger(config *domain.Config) *zap.Logger {
	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		fatal(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	return log
}

func mustOpenRepository(config *domain.Config) *infrastructure.SQLiteTransferRepository {
	if err := os.MkdirAll(filepath.Dir(config.History.DatabasePath), 0755); err != nil {
		fatal(fmt.Sprintf("failed to create history directory: %v", err))
	}
	repo, err := infrastructure.NewSQLiteTransferRepository(config.History.DatabasePath)
	if err != nil {
		fatal(fmt.Sprintf("failed to open history database: %v", err))
	}
	return repo
}

// loadStoredCredential reads the cookie file written by the auth command.
// A missing file just means an anonymous, limited-quality request.
func loadStoredCredential(config *domain.Config, log *zap.Logger) string {
	data, err := os.ReadFile(config.Auth.CookieFile)
	if err != nil {
		return ""
	}
	log.Debug("Loaded stored credential", zap.String("path", config.Auth.CookieFile))
	return strings.TrimSpace(string(data))
}

func storeCredential(config *domain.Config, cookies string) error {
	if err := os.MkdirAll(filepath.Dir(config.Auth.CookieFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(config.Auth.CookieFile, []byte(cookies+"\n"), 0600)
}

func shutdownServer(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}

func fatal(msg string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	os.Exit(1)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
