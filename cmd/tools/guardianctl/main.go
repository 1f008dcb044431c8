// Command guardianctl runs the GuardianLink pipelines from the terminal
// against the completion provider configured in the environment.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/guardianlink/backend/internal/analysis/topic"
	"github.com/guardianlink/backend/internal/config"
	"github.com/guardianlink/backend/internal/model/support"
	"github.com/guardianlink/backend/internal/provider"
	"github.com/guardianlink/backend/internal/retrieval"
	disasterservice "github.com/guardianlink/backend/internal/service/disaster"
	"github.com/guardianlink/backend/internal/service/mentalhealth"
)

var rootCmd = &cobra.Command{
	Use:   "guardianctl",
	Short: "Exercise the GuardianLink pipelines",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Printf("[WARN] .env not loaded, using system environment: %v", err)
		}
	},
	SilenceUsage: true,
}

func init() {
	assessCmd := &cobra.Command{
		Use:   "assess <location>",
		Short: "Assess disaster risk and print recommendations",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAssess,
	}
	assessCmd.Flags().StringP("type", "t", "", "Disaster type, e.g. flood")

	chatCmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Get a mental health support reply",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runChat,
	}
	chatCmd.Flags().StringP("lang", "l", support.DefaultLanguage, "Reply language")

	embedCmd := &cobra.Command{
		Use:   "embed <text...>",
		Short: "Print embedding dimensions for each text",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runEmbed,
	}

	topicsCmd := &cobra.Command{
		Use:   "topics <text>",
		Short: "Classify text into support topics",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			printJSON(topic.Classify(strings.Join(args, " ")))
		},
	}

	rootCmd.AddCommand(assessCmd, chatCmd, embedCmd, topicsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadProvider returns the configured provider. A missing provider is not an
// error: the pipelines fall back to their canned answers.
func loadProvider(ctx context.Context) (*provider.Provider, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	p, err := provider.New(ctx, cfg.AI, nil)
	if errors.Is(err, provider.ErrNotConfigured) {
		log.Printf("[WARN] completion provider %s not configured, output uses fallbacks", cfg.AI.Provider)
		return &provider.Provider{}, nil
	}
	return p, err
}

func chatModelOf(p *provider.Provider) model.BaseChatModel {
	if p == nil {
		return nil
	}
	return p.ChatModel
}

func runAssess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	category, _ := cmd.Flags().GetString("type")

	p, err := loadProvider(ctx)
	if err != nil {
		return err
	}
	orchestrator, err := disasterservice.NewOrchestrator(ctx, chatModelOf(p), nil)
	if err != nil {
		return err
	}

	printJSON(orchestrator.Predict(ctx, strings.Join(args, " "), category))
	return nil
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	lang, _ := cmd.Flags().GetString("lang")

	p, err := loadProvider(ctx)
	if err != nil {
		return err
	}
	retriever := retrieval.New(support.NewMemoryStore(support.Seed()))
	orchestrator, err := mentalhealth.NewOrchestrator(ctx, retriever, chatModelOf(p), nil)
	if err != nil {
		return err
	}

	result := orchestrator.Reply(ctx, strings.Join(args, " "), nil, lang)
	printJSON(map[string]any{
		"response": result.Text,
		"topics":   result.Topics,
		"fallback": result.Fallback,
	})
	return nil
}

func runEmbed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, err := loadProvider(ctx)
	if err != nil {
		return err
	}
	if p.Embedder == nil {
		return errors.New("embeddings require the gaia provider")
	}

	vectors, err := p.Embedder.Embed(ctx, args)
	if err != nil {
		return err
	}
	for i, v := range vectors {
		fmt.Printf("%d\t%d dims\t%q\n", i, len(v), args[i])
	}
	return nil
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}
