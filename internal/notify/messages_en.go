package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, "notify.pet_hungry", "%s is hungry!")
	message.SetString(lang, "notify.pet_sick", "%s is feeling sick. Medicine will help.")
	message.SetString(lang, "notify.neglect_stage.worried", "%s is starting to worry about you.")
	message.SetString(lang, "notify.neglect_stage.sad", "%s misses you.")
	message.SetString(lang, "notify.neglect_stage.withdrawn", "%s has become withdrawn.")
	message.SetString(lang, "notify.neglect_stage.critical", "%s needs you urgently!")
	message.SetString(lang, "notify.neglect_stage.runaway", "%s has run away.")
	message.SetString(lang, "notify.neglect_stage.normal", "%s is doing fine again.")
	message.SetString(lang, "notify.pet_ran_away", "%s ran away! Check the pets screen to call them back.")
	message.SetString(lang, "notify.pet_returned", "%s came home.")
	message.SetString(lang, "notify.level_up", "%s reached level %d! +%d gems")
	message.SetString(lang, "notify.slot_unlocked", "Pet slot %d unlocked.")
	message.SetString(lang, "notify.login_streak", "Day %d login bonus: +%d gems")
	message.SetString(lang, "notify.daily_feed_bonus", "First meal of the day: +%d gems")
	message.SetString(lang, "notify.minigame_reward", "%s tier! +%d coins, +%d XP")
	message.SetString(lang, "notify.energy_full", "Energy is full. Time to play!")
	message.SetString(lang, "notify.cosmetic_purchased", "You bought %s.")
	message.SetString(lang, "notify.offline_summary", "Welcome back! %d things happened in the %.0f hours you were away.")
	message.SetString(lang, "notify.health_alert.sick", "%s is sick.")
	message.SetString(lang, "notify.health_alert.hungry", "%s is starving.")
	message.SetString(lang, "notify.health_alert.sad", "%s is very unhappy.")
	message.SetString(lang, "notify.health_alert.neglected", "%s feels neglected.")
}
