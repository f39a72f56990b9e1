package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"

	"github.com/convkit/controls/agent"
	"github.com/convkit/controls/control"
	"github.com/convkit/controls/input"
	"github.com/convkit/controls/render"
	"github.com/convkit/controls/session"
	"github.com/convkit/controls/validate"
)

var groceryCatalog = []string{"apples", "bananas", "carrots", "dates", "eggs", "flour", "grapes"}

func main() {
	conf := flag.String("config", "config.json", "path to config file (optional, enables the chat-model recognizer)")
	flag.Parse()
	config, _ := loadConfig(*conf)
	if err := startApp(context.Background(), config); err != nil {
		log.Fatalf("start app: %v", err)
	}
}

func maxFiveItems(state *control.ListState) *validate.Failure {
	if len(state.Values) <= 5 {
		return nil
	}
	return &validate.Failure{
		FailedValue:    state.Values[len(state.Values)-1].ID,
		ReasonCode:     "TOO_MANY_ITEMS",
		RenderedReason: "You can put at most five items on the list.",
	}
}

func buildRecognizer(ctx context.Context, config *Config) (input.Recognizer, error) {
	local := input.NewLocalRecognizer()
	if config == nil || config.APIKey == "" {
		return local, nil
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  config.APIKey,
		Model:   config.Model,
		BaseURL: config.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	tool, err := input.NewToolBasedRecognizer(cm)
	if err != nil {
		return nil, err
	}
	return input.NewFailbackRecognizer(tool, local), nil
}

func startApp(ctx context.Context, config *Config) error {
	slog.SetLogLoggerLevel(slog.LevelInfo)
	ctx = session.WithSessionKey(ctx, "shopping")

	cfg := control.NewConfig("GroceryItem",
		control.WithChoices(groceryCatalog...),
		control.WithPageSize(3),
		control.WithValidators(maxFiveItems),
	)
	ctl := control.New(cfg)

	recognizer, err := buildRecognizer(ctx, config)
	if err != nil {
		return err
	}
	renderer := render.New(
		render.WithVisual("ListSelector"),
		render.WithTemplates(render.KindValueConfirmed, render.Literal("Got it, they're on the list."), nil),
	)
	adapter := agent.NewAdapter(
		"ShoppingList",
		"Collects grocery items into a shopping list via conversation",
		ctl,
		recognizer,
		renderer,
		session.NewMemoryStateStore(),
	)
	runner := adk.NewRunner(ctx, adk.RunnerConfig{
		Agent: adapter,
	})
	historyStore := adapter.History()

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Shopping list assistant. Try: add apples and bananas")
	for {
		fmt.Print("you: ")
		line, rErr := reader.ReadString('\n')
		if rErr != nil {
			fmt.Println("input closed, bye")
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		history, hErr := historyStore.Append(ctx, schema.UserMessage(line))
		if hErr != nil {
			return hErr
		}
		iter := runner.Run(ctx, history)
		for {
			event, ok := iter.Next()
			if !ok {
				break
			}
			if event.Err != nil {
				return event.Err
			}
			msg, mErr := event.Output.MessageOutput.GetMessage()
			if mErr != nil {
				return mErr
			}
			if _, aErr := historyStore.Append(ctx, msg); aErr != nil {
				return aErr
			}
			fmt.Printf("\nassistant: %v\n======\n", msg.Content)
		}
	}
	return nil
}
