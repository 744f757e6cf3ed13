package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"grundy/internal/bible"
	"grundy/internal/chase"
	"grundy/internal/economy"
	"grundy/internal/game"
	"grundy/internal/ui"
)

func newPlayCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Open the game (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, opts)
		},
	}
}

func runPlay(cmd *cobra.Command, opts *RootOptions) error {
	return withSession(cmd.Context(), opts, func(s *session) error {
		return ui.Run(ui.NewModel(s.store, &s.welcome, s.rng))
	})
}

func newStatusCommand(opts *RootOptions) *cobra.Command {
	var asJSON, full bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show how your pets are doing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(s *session) error {
				if asJSON {
					data, err := game.Marshal(s.store.State())
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return err
				}
				if full {
					p, ok := s.store.ActivePet()
					if !ok {
						return writeStatus(cmd.OutOrStdout(), s)
					}
					card, _ := ui.CardFor(s.store.State(), p.InstanceID, s.store.Env().Now)
					return ui.DisplayStats(card)
				}
				return writeStatus(cmd.OutOrStdout(), s)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the save snapshot as JSON")
	cmd.Flags().BoolVar(&full, "full", false, "show the active pet full-screen")
	return cmd
}

func newFeedCommand(opts *RootOptions) *cobra.Command {
	var petID string
	cmd := &cobra.Command{
		Use:   "feed <food>",
		Short: "Feed a pet from the pantry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(s *session) error {
				id, err := s.petOrActive(petID)
				if err != nil {
					return err
				}
				res := s.store.Feed(id, args[0])
				if err := game.Err("feed", res.Failure); err != nil {
					return err
				}
				return writeFeed(cmd.OutOrStdout(), s.store.State().Pets[id].Name, res)
			})
		},
	}
	cmd.Flags().StringVar(&petID, "pet", "", "pet id (default: the active pet)")
	return cmd
}

func newChaseCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chase",
		Short: "Play Butterfly Chase with the active pet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(s *session) error {
				p, ok := s.store.ActivePet()
				if !ok {
					_, err := s.petOrActive("")
					return err
				}
				result, err := chase.Run(p, s.rng)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if result.Aborted {
					_, err := fmt.Fprintln(out, "Chase abandoned. No play was used.")
					return err
				}
				play := s.store.Play(p.InstanceID, result.Score)
				if err := game.Err("play", play.Failure); err != nil {
					return err
				}
				return writePlay(out, result, play)
			})
		},
	}
}

func newWelcomeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "welcome",
		Short: "Catch up on what happened while you were away",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(s *session) error {
				return writeWelcome(cmd.OutOrStdout(), s.streak, s.welcome)
			})
		},
	}
}

func newBuyCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <item> [quantity]",
		Short: "Buy food, a bundle or a care item with coins",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty := 1
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("quantity %q: %w", args[1], err)
				}
				qty = n
			}
			return withSession(cmd.Context(), opts, func(s *session) error {
				res := buy(s, args[0], qty)
				if err := game.Err("buy", res.Failure); err != nil {
					return err
				}
				return writePurchase(cmd.OutOrStdout(), res, s.store.State().Currencies.Coins)
			})
		},
	}
}

// buy routes id to the bundle, food or care item shelf. Bundles and care
// items are bought one at a time; the first failure stops the run.
func buy(s *session, id string, qty int) economy.PurchaseResult {
	cat := s.store.Env().Catalog
	var one func() economy.PurchaseResult
	if _, ok := cat.Bundle(id); ok {
		one = func() economy.PurchaseResult { return s.store.BuyBundle(id) }
	} else if _, ok := cat.Food(id); ok {
		return s.store.BuyFood(id, qty)
	} else if _, ok := cat.CareItem(id); ok {
		one = func() economy.PurchaseResult { return s.store.BuyCareItem(id) }
	} else {
		return s.store.BuyFood(id, qty)
	}
	if qty < 1 {
		return economy.PurchaseResult{ItemID: id, Failure: bible.Fail(bible.CodeInvalidQuantity, "quantity must be at least 1")}
	}
	total := economy.PurchaseResult{ItemID: id, Granted: map[string]int{}}
	for range qty {
		res := one()
		if res.Failed() {
			if total.Quantity == 0 {
				return res
			}
			break
		}
		total.Success = true
		total.Quantity++
		total.CoinsSpent += res.CoinsSpent
		for k, n := range res.Granted {
			total.Granted[k] += n
		}
	}
	return total
}

func newShopCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "List what the shop sells right now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(s *session) error {
				return writeShop(cmd.OutOrStdout(), s.store)
			})
		},
	}
}

func newWearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "wear <cosmetic>",
		Short: "Dress the active pet, buying the cosmetic with gems if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(s *session) error {
				id, err := s.petOrActive("")
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !s.store.State().Wardrobe.Owns(id, args[0]) {
					bought := s.store.BuyCosmetic(args[0])
					if err := game.Err("buy cosmetic", bought.Failure); err != nil {
						return err
					}
					if _, err := fmt.Fprintf(out, "Bought %s for %d gems.\n", args[0], bought.GemsSpent); err != nil {
						return err
					}
				}
				res := s.store.EquipCosmetic(id, args[0])
				if err := game.Err("wear", res.Failure); err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "%s now wears %s (%s).\n", s.store.State().Pets[id].Name, args[0], res.Slot)
				return err
			})
		},
	}
}

func newAdoptCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "adopt <species> [name]",
		Short: "Adopt a pet into a free slot",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			return withSession(cmd.Context(), opts, func(s *session) error {
				res := s.store.AdoptPet(args[0], name)
				if err := game.Err("adopt", res.Failure); err != nil {
					return err
				}
				p := s.store.State().Pets[res.PetID]
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s joined the family (%s).\n", ui.SpeciesEmoji(p.SpeciesID), p.Name, p.InstanceID)
				return err
			})
		},
	}
}

func newInboxCommand(opts *RootOptions) *cobra.Command {
	var markRead bool
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "List notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(s *session) error {
				if err := writeInbox(cmd.OutOrStdout(), s.store.Notifications()); err != nil {
					return err
				}
				if markRead {
					s.store.MarkAllNotificationsRead()
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&markRead, "read", false, "mark everything as read")
	return cmd
}
