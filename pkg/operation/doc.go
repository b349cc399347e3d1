/*
Package operation runs a loaded rule set against an extracted bundle.

	+-------------+
	|  Operation  |
	|   (Apply)   |
	+------+------+
	       |
	+------+------+
	|    Patch    |
	| (Per file)  |
	+------+------+

🎯 Purpose:
- Resolves each rule's candidate files through the selector
- Applies rules in a fixed order: files, replace, insert, prepend, binaries
- Turns tagged patch outcomes into an exit decision

🔄 Flow:
1. Fixed-path file rules run first; a missing file aborts the run
2. Text rules scan their bundle; a format mismatch aborts the run
3. Binary rules back up or restore, then patch
4. Any unrecognized binary fails the run after every rule has been tried

🔍 Example:

	op, err := operation.NewApplyOperation(operation.Options{
		Config:   cfg,
		Selector: selector.New(cfg.Root),
		Logger:   logger,
		Values:   cfg.Options,
	})
	err = operation.NewRunner().Run(ctx, op)
*/
package operation
