package validator

import (
	"ctchen222/tictactoe-engine/internal/bot"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// "difficulty" accepts any level understood by bot.NewBotMoveCalculator.
	if err := validate.RegisterValidation("difficulty", isDifficulty); err != nil {
		panic(err)
	}
}

func GetValidator() *validator.Validate {
	return validate
}

func isDifficulty(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case bot.DifficultyEasy, bot.DifficultyMedium, bot.DifficultyHard:
		return true
	}
	return false
}
