// Example usage of the Seaport SDK Go
package main

import (
	"context"
	"fmt"
	"log"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	seaport "github.com/kaifufi/seaport-sdk-go"
)

func main() {
	// Initialize the SDK client
	config := seaport.ClientConfig{
		RPCURL:     "https://eth-mainnet.example.com", // Replace with actual RPC URL
		PrivateKey: "your-private-key-here",           // Replace with actual private key
		// ContractAddress left zero: the canonical cross-chain deployment is used
	}

	client, err := seaport.NewClient(config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()

	nftAddress := common.HexToAddress("0x...")   // Replace with actual collection
	feeRecipient := common.HexToAddress("0x...") // Replace with actual fee recipient

	// Example: List an ERC721 for 10 ETH with a 2.5% fee
	fmt.Println("Creating listing...")
	createUseCase, err := client.CreateOrder(ctx, seaport.CreateOrderInput{
		Offer: []seaport.CreateInputItem{{
			Kind:       seaport.InputItemNFT,
			ItemType:   seaport.ItemTypeERC721,
			Token:      nftAddress,
			Identifier: big.NewInt(1),
		}},
		Consideration: []seaport.ConsiderationInputItem{{
			// Zero token means native currency; zero recipient defaults to the offerer
			CreateInputItem: seaport.CreateInputItem{
				Kind:   seaport.InputItemCurrency,
				Amount: new(big.Int).Mul(big.NewInt(10), big.NewInt(1e18)),
			},
		}},
		Fees: []seaport.Fee{{Recipient: feeRecipient, BasisPoints: 250}},
	})
	if err != nil {
		log.Fatalf("Failed to plan order creation: %v", err)
	}

	fmt.Printf("Creation needs %d actions (approvals then signature)\n", len(createUseCase.Actions))

	order, err := createUseCase.ExecuteAllActions(ctx)
	if err != nil {
		log.Fatalf("Failed to create order: %v", err)
	}
	fmt.Printf("Signed order: hash %s\n", client.GetOrderHash(order.Parameters).Hex())

	// Example: Fulfill the listing from another account
	fmt.Println("\nFulfilling order...")
	fulfillUseCase, err := client.FulfillOrder(ctx, seaport.FulfillOrderInput{
		Order: order,
	})
	if err != nil {
		log.Fatalf("Failed to plan fulfillment: %v", err)
	}

	txHash, err := fulfillUseCase.ExecuteAllActions(ctx)
	if err != nil {
		log.Fatalf("Failed to fulfill order: %v", err)
	}
	fmt.Printf("Fulfillment transaction: %s\n", txHash.Hex())

	// Example: Cancel every outstanding order in one transaction
	fmt.Println("\nBulk cancelling...")
	cancelAction, err := client.BulkCancelOrders()
	if err != nil {
		log.Fatalf("Failed to build cancel action: %v", err)
	}

	cancelHash, err := client.Submit(ctx, cancelAction.Transaction)
	if err != nil {
		log.Fatalf("Failed to submit cancel: %v", err)
	}
	fmt.Printf("Cancel transaction: %s\n", cancelHash.Hex())
}
