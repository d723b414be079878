package tables

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

// parseTables walks a complete Textract block list and rebuilds every
// TABLE as a grid. Row and column indices from Textract are 1-based.
func parseTables(blocks []types.Block) []ExtractedTable {
	blockMap := make(map[string]types.Block, len(blocks))
	for _, b := range blocks {
		blockMap[aws.ToString(b.Id)] = b
	}

	var tables []ExtractedTable
	for _, b := range blocks {
		if b.BlockType != types.BlockTypeTable {
			continue
		}

		cells := tableCells(b, blockMap)
		if len(cells) == 0 {
			continue
		}

		maxRow, maxCol := 0, 0
		for _, c := range cells {
			if c.RowIndex+1 > maxRow {
				maxRow = c.RowIndex + 1
			}
			if c.ColumnIndex+1 > maxCol {
				maxCol = c.ColumnIndex + 1
			}
		}

		grid := make([][]string, maxRow)
		for i := range grid {
			grid[i] = make([]string, maxCol)
		}
		for _, c := range cells {
			grid[c.RowIndex][c.ColumnIndex] = c.Text
		}

		page := 1
		if b.Page != nil {
			page = int(*b.Page)
		}

		table := ExtractedTable{
			PageNumber: page,
			Headers:    grid[0],
			Confidence: float64(aws.ToFloat32(b.Confidence)),
		}
		if len(grid) > 1 {
			table.Rows = grid[1:]
		}
		tables = append(tables, table)
	}

	return tables
}

func tableCells(table types.Block, blockMap map[string]types.Block) []TableCell {
	var cells []TableCell
	for _, id := range childIDs(table) {
		cell, ok := blockMap[id]
		if !ok || cell.BlockType != types.BlockTypeCell {
			continue
		}

		row, col := 1, 1
		if cell.RowIndex != nil {
			row = int(*cell.RowIndex)
		}
		if cell.ColumnIndex != nil {
			col = int(*cell.ColumnIndex)
		}

		cells = append(cells, TableCell{
			Text:        blockText(cell, blockMap),
			RowIndex:    row - 1,
			ColumnIndex: col - 1,
			Confidence:  float64(aws.ToFloat32(cell.Confidence)),
		})
	}
	return cells
}

// blockText joins the WORD children of a block.
func blockText(b types.Block, blockMap map[string]types.Block) string {
	var parts []string
	for _, id := range childIDs(b) {
		child, ok := blockMap[id]
		if ok && child.BlockType == types.BlockTypeWord {
			parts = append(parts, aws.ToString(child.Text))
		}
	}
	return strings.Join(parts, " ")
}

func childIDs(b types.Block) []string {
	var ids []string
	for _, rel := range b.Relationships {
		if rel.Type == types.RelationshipTypeChild {
			ids = append(ids, rel.Ids...)
		}
	}
	return ids
}
