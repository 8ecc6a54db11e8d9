package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SuperstrongBE/xpr-guru-bot/internal/config"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/model"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/repository"
)

func intPtr(v int) *int { return &v }

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	questions := repository.NewQuestionRepo(client.Database(cfg.MongoDatabase))

	seed := []*model.Question{
		{
			Question:    "What is the native token of the XPR Network?",
			Choices:     []string{"XPR", "ETH", "ATOM", "EOS"},
			AnswerIndex: intPtr(0),
			AnswerInfo:  "XPR powers resources, staking and governance on the XPR Network.",
			Tags:        []string{"xpr"},
		},
		{
			Question:    "Which consensus mechanism does the XPR Network use?",
			Choices:     []string{"Proof of Work", "Delegated Proof of Stake", "Proof of History", "Proof of Authority"},
			AnswerIndex: intPtr(1),
			AnswerInfo:  "Block producers are elected by token holders under DPoS.",
			Tags:        []string{"xpr"},
		},
		{
			Question:    "How much do users pay in gas fees for XPR Network transfers?",
			Choices:     []string{"A dynamic market fee", "A flat 1% fee", "Nothing", "0.1 XPR per action"},
			AnswerIndex: intPtr(2),
			AnswerInfo:  "Transfers on the XPR Network are feeless for end users.",
			Tags:        []string{"xpr"},
		},
		{
			Question:    "What does a liquidity pool pair consist of?",
			Choices:     []string{"Two tokens", "One token and fiat", "Only stablecoins", "Validator stakes"},
			AnswerIndex: intPtr(0),
			AnswerInfo:  "An AMM pool holds reserves of two tokens and prices swaps off their ratio.",
			Tags:        []string{"defi"},
		},
		{
			Question:    "What is impermanent loss?",
			Choices:     []string{"A failed transaction", "Value drift versus holding when providing liquidity", "A slashing penalty", "An exchange hack"},
			AnswerIndex: intPtr(1),
			AnswerInfo:  "Price divergence between pooled assets can leave LPs worse off than holding.",
			Tags:        []string{"defi"},
		},
	}

	for _, q := range seed {
		if err := questions.Create(ctx, q); err != nil {
			log.Fatalf("Failed to insert question: %v", err)
		}
	}

	fmt.Printf("Seeded %d questions into %s\n", len(seed), cfg.MongoDatabase)
}
