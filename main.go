package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile  string
	apiKey      string
	notionToken string
	databaseID  string
	archiveDir  string
	debugMode   bool
)

var rootCmd = &cobra.Command{
	Use:   "israeli-tech-news",
	Short: "Collects Israeli tech news into a markdown archive and Notion",
	Long:  `A scheduled pipeline that searches for recent Israeli tech news, archives the results as dated markdown documents and mirrors each article into a Notion database.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		log := logrus.New()
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
		if debugMode {
			log.SetLevel(logrus.DebugLevel)
		}

		// Credentials are read here, once, and passed down by parameter.
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if notionToken == "" {
			notionToken = os.Getenv("NOTION_TOKEN")
		}
		if databaseID == "" {
			databaseID = os.Getenv("NOTION_DATABASE_ID")
		}

		if apiKey == "" {
			log.Fatal("API key required: use --api-key flag or ANTHROPIC_API_KEY environment variable")
		}
		if databaseID == "" {
			log.Fatal("Database ID required: use --database-id flag or NOTION_DATABASE_ID environment variable")
		}
		if notionToken == "" {
			log.Warn("NOTION_TOKEN is not set, publishing to Notion will fail")
		}

		settings, err := loadSettings(configFile)
		if err != nil {
			log.Fatalf("Loading settings: %v", err)
		}
		if archiveDir != "" {
			settings.ArchiveDirectory = archiveDir
		}

		searchClient := NewSearchClient(apiKey, settings.Search.Model, settings.Search.MaxTokens)
		collector := NewCollector(searchClient, settings.Queries, settings.Delay(), log)
		archive := NewArchiveWriter(settings.ArchiveDirectory, log)
		publisher := NewPublisher(NewNotionClient(notionToken), databaseID, log)

		var digest *DigestWriter
		if settings.Digest.Enabled {
			digest = NewDigestWriter(apiKey, settings.Digest.Model, settings.Digest.MaxTokens)
		}

		pipeline := NewPipeline(collector, archive, publisher, digest, settings.SummaryPath, log)

		summary, err := pipeline.Run(context.Background())
		if err != nil {
			log.Fatalf("Run failed: %v", err)
		}

		log.Infof("Run complete: %d articles found, %d published", summary.ArticlesFound, summary.ArticlesPublished)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to settings YAML (defaults to embedded settings)")
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "Anthropic API key")
	rootCmd.Flags().StringVar(&notionToken, "notion-token", "", "Notion integration token")
	rootCmd.Flags().StringVar(&databaseID, "database-id", "", "Notion database ID")
	rootCmd.Flags().StringVar(&archiveDir, "archive-dir", "", "Archive root directory (overrides settings)")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
