package script

// Default is the registry shipped with the decoder.
var Default = DefaultRegistry()

// DefaultRegistry builds the known opcode table.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, e := range defaultEntries() {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}

	return r
}

func defaultEntries() []Entry {
	zoneSentinels := map[uint8]Sentinel{
		OperandAll: {Text: "all zones", Confidence: Resolved},
	}

	return []Entry{
		{Opcode: 0x00, Mnemonic: "END", Operand: "Region", Description: "Section delimiter (0) or region victory check", Handler: endHandler, Literal: true},
		{Opcode: 0x01, Mnemonic: "TURNS", Operand: "Side marker", Description: "Player section marker / turn value", Handler: turnsHandler, Literal: true},
		{Opcode: 0x02, Mnemonic: "ZONE_OBJECTIVE", Operand: "Zone idx", Description: "Zone-based objective or victory modifier", Handler: zoneHandler("Zone objective: %s"), Sentinels: zoneSentinels, NoSentinel: []uint8{OperandNone}},
		{Opcode: 0x03, Mnemonic: "SCORE", Operand: "VP threshold", Description: "Victory point objective/threshold", Handler: scoreHandler, Literal: true},
		{Opcode: 0x04, Mnemonic: "CONVOY_RULE", Operand: "Value", Description: "Convoy delivery rule", Handler: refHandler("Convoy delivery rule (flags: %d)")},
		{
			Opcode: 0x05, Mnemonic: "SPECIAL_RULE", Operand: "Code", Description: "Special rules", Handler: specialRuleHandler,
			Sentinels: map[uint8]Sentinel{
				OperandAll:  {Text: "No cruise missile attacks allowed", Confidence: Resolved},
				OperandNone: {Text: "Standard engagement rules", Confidence: Resolved},
			},
		},
		{Opcode: 0x06, Mnemonic: "SHIP_DEST", Operand: "Port idx", Description: "Ships must reach port", Handler: portHandler("Ships must reach %s", "Ships must reach port (index: %d)")},
		{Opcode: 0x07, Mnemonic: "CAMPAIGN_INIT", Operand: "Region/Flag", Description: "Campaign scenario setup", Handler: describeHandler},
		{Opcode: 0x08, Mnemonic: "SCENARIO_FLAG", Operand: "Always 0", Description: "Scenario configuration flag", Handler: describeHandler},
		{Opcode: 0x09, Mnemonic: "ZONE_CONTROL", Operand: "Zone idx", Description: "Zone control objective", Handler: zoneHandler("Control or occupy %s"), Sentinels: map[uint8]Sentinel{
			OperandAll:  {Text: "Control or occupy all zones", Confidence: Resolved},
			OperandNone: {Text: "Generic zone control objective", Confidence: Inferred},
		}},
		{Opcode: 0x0A, Mnemonic: "ZONE_CHECK", Operand: "Zone idx", Description: "Zone status check", Handler: zoneHandler("Zone status check: %s"), Sentinels: zoneSentinels, NoSentinel: []uint8{OperandNone}},
		{Opcode: 0x0B, Mnemonic: "CAMPAIGN_FLAG", Operand: "Always 0", Description: "Campaign mode flag", Handler: describeHandler},
		{Opcode: 0x0C, Mnemonic: "TASK_FORCE", Operand: "TF ref", Description: "Task force objective", Handler: refHandler("Task force survival/destination (ref: %d)"), Sentinels: map[uint8]Sentinel{
			OperandAll:  {Text: "All task forces must survive", Confidence: Resolved},
			OperandNone: {Text: "Task force objective (no specific task force)", Confidence: Inferred},
		}},
		{Opcode: 0x0E, Mnemonic: "BASE_RULE", Operand: "Base idx", Description: "Airfield/base control objective", Handler: baseHandler, NoSentinel: []uint8{OperandNone}},
		{Opcode: 0x0F, Mnemonic: "SPECIAL_OBJ", Operand: "Value", Description: "Special objective type", Handler: describeHandler},
		{Opcode: 0x10, Mnemonic: "SCENARIO_INIT_10", Operand: "Value", Description: "Scenario initialization", Handler: describeHandler},
		{Opcode: 0x11, Mnemonic: "SCENARIO_INIT_11", Operand: "Value", Description: "Scenario initialization", Handler: describeHandler},
		{Opcode: 0x13, Mnemonic: "PORT_RESTRICT", Operand: "Flags", Description: "Replenishment port restrictions", Handler: describeHandler},
		{Opcode: 0x14, Mnemonic: "SCENARIO_INIT_14", Operand: "Value", Description: "Scenario/campaign initialization", Handler: describeHandler},
		{Opcode: 0x17, Mnemonic: "VICTORY_MOD_17", Operand: "VP value", Description: "Victory modifier", Handler: describeHandler, Literal: true},
		{Opcode: 0x18, Mnemonic: "CONVOY_PORT", Operand: "Port idx", Description: "Convoy destination port", Handler: portHandler("Convoy destination: %s", "Convoy destination (port ref: %d)")},
		{Opcode: 0x19, Mnemonic: "VICTORY_MOD_19", Operand: "VP value", Description: "Victory modifier", Handler: describeHandler, Literal: true},
		{Opcode: 0x1D, Mnemonic: "SHIP_OBJECTIVE", Operand: "Ship type", Description: "Ship-specific objective", Handler: describeHandler},
		{Opcode: 0x1E, Mnemonic: "VICTORY_MOD_1E", Operand: "VP value", Description: "Victory modifier", Handler: describeHandler, Literal: true},
		{Opcode: 0x20, Mnemonic: "VICTORY_MOD_20", Operand: "VP value", Description: "Victory modifier", Handler: describeHandler, Literal: true},
		{Opcode: 0x23, Mnemonic: "VICTORY_MOD_23", Operand: "VP value", Description: "Victory modifier", Handler: describeHandler, Literal: true},
		{Opcode: 0x26, Mnemonic: "VICTORY_MOD_26", Operand: "VP value", Description: "Victory modifier", Handler: describeHandler, Literal: true},
		{Opcode: 0x29, Mnemonic: "REGION_RULE", Operand: "Region idx", Description: "Region-based victory rule", Handler: regionHandler("Region-based victory rule: %s"), Literal: true},
		{Opcode: 0x2B, Mnemonic: "VICTORY_MOD_2B", Operand: "VP value", Description: "Victory modifier", Handler: describeHandler, Literal: true},
		{Opcode: 0x2D, Mnemonic: "ALT_TURNS", Operand: "Turn count", Description: "Alternate turn limit", Handler: altTurnsHandler, Literal: true},
		{Opcode: 0x30, Mnemonic: "VICTORY_MOD_30", Operand: "VP value", Description: "Victory modifier", Handler: describeHandler, Literal: true},
		{Opcode: 0x34, Mnemonic: "VICTORY_MOD_34", Operand: "VP value", Description: "Victory modifier", Handler: describeHandler, Literal: true},
		{Opcode: 0x35, Mnemonic: "SETUP_PARAM", Operand: "Value", Description: "Setup parameter", Handler: describeHandler},
		{Opcode: 0x3A, Mnemonic: "CONVOY_FALLBACK", Operand: "List ref", Description: "Convoy fallback port list", Handler: refHandler("Convoy fallback port list (ref: %d)")},
		{Opcode: 0x3C, Mnemonic: "DELIVERY_CHECK", Operand: "Flags", Description: "Delivery success/failure check", Handler: refHandler("Delivery success/failure check (flags: %d)")},
		{Opcode: 0x3D, Mnemonic: "PORT_LIST", Operand: "List idx", Description: "Port list for multi-destination objectives", Handler: refHandler("Multi-destination port list (ref: %d)")},
		{Opcode: 0x41, Mnemonic: "FLEET_POSITION", Operand: "Value", Description: "Fleet positioning requirement", Handler: describeHandler},
		{Opcode: 0x5A, Mnemonic: "SETUP_5A", Operand: "Value", Description: "Setup opcode", Handler: describeHandler},
		{Opcode: 0x5F, Mnemonic: "VICTORY_MOD_5F", Operand: "VP value", Description: "Victory modifier", Handler: describeHandler, Literal: true},
		{Opcode: 0x6D, Mnemonic: "SUPPLY_LIMIT", Operand: "Port mask", Description: "Supply port restrictions", Handler: refHandler("Supply port restrictions (mask: 0x%02x)"), Literal: true},
		{Opcode: 0x6E, Mnemonic: "SETUP_6E", Operand: "Value", Description: "Setup opcode", Handler: describeHandler},
		{Opcode: 0x86, Mnemonic: "VICTORY_MOD_86", Operand: "VP value", Description: "Victory modifier", Handler: describeHandler, Literal: true},
		{Opcode: 0x96, Mnemonic: "SETUP_96", Operand: "Value", Description: "Setup opcode", Handler: describeHandler},
		{Opcode: 0xBB, Mnemonic: "ZONE_ENTRY", Operand: "Zone idx", Description: "Zone entry requirement", Handler: zoneHandler("Zone entry requirement: %s"), Sentinels: zoneSentinels, NoSentinel: []uint8{OperandNone}},
	}
}
