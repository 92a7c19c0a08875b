package database_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/placecoin/placecoin/foundation/blockchain/database"
	"github.com/placecoin/placecoin/foundation/blockchain/database/storage"
	"github.com/placecoin/placecoin/foundation/blockchain/signature"
)

func Test_PixelBaseCost(t *testing.T) {
	t.Log("Given the need to price pixels radially from the canvas center.")
	{
		t.Logf("\tTest 0:\tWhen pricing the center and points moving outward.")
		{
			center := database.PixelBaseCost(database.Point{X: 0, Y: 0})
			if center != 1 {
				t.Errorf("\t%s\tTest 0:\tShould price the center pixel at 1, got %d.", failed, center)
			} else {
				t.Logf("\t%s\tTest 0:\tShould price the center pixel at 1.", success)
			}

			near := database.PixelBaseCost(database.Point{X: 3, Y: 4})
			far := database.PixelBaseCost(database.Point{X: 30, Y: 40})

			if !(center < near && near < far) {
				t.Errorf("\t%s\tTest 0:\tShould price strictly higher with distance: %d, %d, %d.", failed, center, near, far)
			} else {
				t.Logf("\t%s\tTest 0:\tShould price strictly higher with distance.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen pricing points at the same radius.")
		{
			a := database.PixelBaseCost(database.Point{X: 3, Y: 4})
			b := database.PixelBaseCost(database.Point{X: -3, Y: -4})
			c := database.PixelBaseCost(database.Point{X: 5, Y: 0})

			if a != b || a != c {
				t.Errorf("\t%s\tTest 1:\tShould price equal radii equally: %d, %d, %d.", failed, a, b, c)
			} else {
				t.Logf("\t%s\tTest 1:\tShould price equal radii equally.", success)
			}
		}
	}
}

func Test_PixelRepricing(t *testing.T) {
	minerKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate the miner key: %v", failed, err)
	}
	minerPub := signature.PublicKeyBytes(minerKey)
	miner := database.PublicKeyHash(minerPub)

	otherKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate the second key: %v", failed, err)
	}
	otherPub := signature.PublicKeyBytes(otherKey)
	other := database.PublicKeyHash(otherPub)

	third := database.Hash{0xAA}

	strg, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct memory storage: %v", failed, err)
	}

	db, err := database.New(testGenesis, strg, nil)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to open the database: %v", failed, err)
	}
	defer db.Close()

	position := database.Point{X: 0, Y: 0}
	red := database.Color{R: 255}
	blue := database.Color{B: 255}

	t.Log("Given the need to reprice a pixel as it changes hands.")
	{
		t.Logf("\tTest 0:\tWhen the first buyer purchases a virgin pixel.")
		{
			sealBlock(t, db, []database.Transaction{rewardTransaction(t, db, miner, 1000)})

			if cost := db.PixelCost(miner, position, db.Height()); cost != 1 {
				t.Errorf("\t%s\tTest 0:\tShould price the virgin center pixel at 1, got %d.", failed, cost)
			} else {
				t.Logf("\t%s\tTest 0:\tShould price the virgin center pixel at 1.", success)
			}

			fundHash := db.UnspentByAddress(miner)[0].Tx.Hash()
			sig, err := signature.AuthorizeSpend(fundHash, 0, minerPub, minerKey)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to authorize the spend: %v", failed, err)
			}

			// One transaction buys the pixel and funds the second buyer.
			buyTx, err := database.NewTx(
				db,
				[]database.TxInput{database.NewSpendInput(fundHash, 0, minerPub, sig)},
				[]database.TxOutput{
					database.NewPixelOutput(1, position, red),
					database.NewSpendableOutput(500, other),
					database.NewSpendableOutput(499, miner),
				},
				0,
			)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the purchase: %v", failed, err)
			}

			sealBlock(t, db, []database.Transaction{buyTx, rewardTransaction(t, db, miner, 1000)})

			owners := db.PixelOwners(position, db.Height())
			if len(owners) != 1 || owners[0] != miner {
				t.Errorf("\t%s\tTest 0:\tShould record the buyer as the only owner.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould record the buyer as the only owner.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen pricing the pixel after the first purchase.")
		{
			if cost := db.PixelCost(miner, position, db.Height()); cost != 1 {
				t.Errorf("\t%s\tTest 1:\tShould not surcharge the current owner, got %d.", failed, cost)
			} else {
				t.Logf("\t%s\tTest 1:\tShould not surcharge the current owner.", success)
			}

			if cost := db.PixelCost(other, position, db.Height()); cost != 2 {
				t.Errorf("\t%s\tTest 1:\tShould double the price for a new buyer, got %d.", failed, cost)
			} else {
				t.Logf("\t%s\tTest 1:\tShould double the price for a new buyer.", success)
			}

			if cost := db.PixelCost(other, position, 1); cost != 1 {
				t.Errorf("\t%s\tTest 1:\tShould price from history before the purchase, got %d.", failed, cost)
			} else {
				t.Logf("\t%s\tTest 1:\tShould price from history before the purchase.", success)
			}
		}

		t.Logf("\tTest 2:\tWhen a second buyer takes the pixel over.")
		{
			fundHash := db.UnspentByAddress(other)[0].Tx.Hash()
			fundIndex := db.UnspentByAddress(other)[0].Index

			sig, err := signature.AuthorizeSpend(fundHash, fundIndex, otherPub, otherKey)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to authorize the spend: %v", failed, err)
			}

			takeTx, err := database.NewTx(
				db,
				[]database.TxInput{database.NewSpendInput(fundHash, fundIndex, otherPub, sig)},
				[]database.TxOutput{
					database.NewPixelOutput(2, position, blue),
					database.NewSpendableOutput(498, other),
				},
				0,
			)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to construct the takeover: %v", failed, err)
			}

			sealBlock(t, db, []database.Transaction{takeTx, rewardTransaction(t, db, miner, 1000)})

			owners := db.PixelOwners(position, db.Height())
			if len(owners) != 2 || owners[0] != miner || owners[1] != other {
				t.Errorf("\t%s\tTest 2:\tShould record both owners in purchase order.", failed)
			} else {
				t.Logf("\t%s\tTest 2:\tShould record both owners in purchase order.", success)
			}

			if cost := db.PixelCost(miner, position, db.Height()); cost != 2 {
				t.Errorf("\t%s\tTest 2:\tShould charge the first owner for one other hand, got %d.", failed, cost)
			} else {
				t.Logf("\t%s\tTest 2:\tShould charge the first owner for one other hand.", success)
			}

			if cost := db.PixelCost(third, position, db.Height()); cost != 3 {
				t.Errorf("\t%s\tTest 2:\tShould charge a stranger for two prior hands, got %d.", failed, cost)
			} else {
				t.Logf("\t%s\tTest 2:\tShould charge a stranger for two prior hands.", success)
			}
		}

		t.Logf("\tTest 3:\tWhen reading the canvas.")
		{
			canvas := db.Canvas()
			if len(canvas) != 1 {
				t.Fatalf("\t%s\tTest 3:\tShould have exactly one painted pixel, got %d.", failed, len(canvas))
			}
			t.Logf("\t%s\tTest 3:\tShould have exactly one painted pixel.", success)

			px := canvas[0]
			if px.Owner != other || px.Color != blue || px.Value != 2 || px.Height != 3 {
				t.Errorf("\t%s\tTest 3:\tShould show the latest purchase: owner[%s] value[%d] height[%d].", failed, px.Owner, px.Value, px.Height)
			} else {
				t.Logf("\t%s\tTest 3:\tShould show the latest purchase.", success)
			}
		}
	}
}
