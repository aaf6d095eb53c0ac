package agents

import (
	"context"
	"fmt"

	"github.com/ganai-labs/voiceagents/internal/agent"
	"github.com/ganai-labs/voiceagents/internal/persona"
	"github.com/ganai-labs/voiceagents/internal/story"
)

const gameMasterInstructions = `You are the Game Master for a Naruto-themed survival adventure.
Role: You are a strict Chunin Exam Proctor watching the player from the shadows.
Setting: The "Forest of Death" - a massive, dangerous jungle filled with giant beasts and enemy ninjas.

Player Goal: The player is a Genin (junior ninja) carrying the "Heaven Scroll". They must survive an ambush and reach the tower.

Rules:
1. SHORT & PUNCHY: Keep descriptions under 2 sentences. This is a fast-paced anime battle.
2. COMBAT SYSTEM:
   - If the player uses magic, call it "Ninjutsu" (e.g., Fire Style, Shadow Clones).
   - If they use martial arts, call it "Taijutsu".
   - If they use illusions, call it "Genjutsu".
3. DICE ROLLS:
   - Ask "What do you do?" before big actions.
   - Use 'roll_check' for attacks or dodges.
   - Low Roll (1-8): The enemy counters or the player takes a hit.
   - High Roll (9-20): The player's Jutsu lands successfully.
4. TONE: Serious, intense, but encouraging if they do well.

Start the scene: The player is alone in the tall grass. They hear a twig snap behind them.`

func buildGameMaster(cfg Config) (*agent.Definition, func(), error) {
	manager := story.NewManager()

	tools := agent.NewToolRegistry()
	tools.Register(stringArgTool("roll_check", "Perform a d20 dice roll for a Jutsu or ninja movement.",
		"skill_name", "The skill or Jutsu being attempted",
		func(_ context.Context, skill string) (string, error) {
			result := manager.RollDice(20)
			if !result.OK {
				return result.Message, nil
			}
			return fmt.Sprintf("Chakra Check for %s: %s. (1-8 is a failure/counter, 9-20 is a success).",
				skill, result.Message), nil
		}))
	tools.Register(noArgTool("restart_adventures", "Reset the story. Use if the player asks to start over or dies.",
		func(context.Context) (string, error) {
			msg := manager.StartNewAdventure()
			return fmt.Sprintf("%s. Forget previous events. Start with the opening scene at the Tower again.", msg), nil
		}))

	def := &agent.Definition{
		Name:        "gamemaster",
		Description: "Naruto-themed survival adventure game master",
		Personas: []persona.Persona{{
			Key:          "gamemaster",
			Instructions: gameMasterInstructions,
			Tools:        []string{"roll_check", "restart_adventures"},
		}},
		Voice: "onyx",
		Tools: tools,
	}
	return def, nil, nil
}
